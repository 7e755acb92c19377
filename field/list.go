package field

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/valid"
)

// List 同构列表，所有元素的失败按 @index[N] 聚合上报
type List struct {
	Base
	elem  Type
	count *valid.Length
}

func NewList(elem Type, opts ...Option) (*List, error) {
	if elem == nil {
		return nil, errors.Wrap(ErrInvalidOption, "list: element type is nil")
	}
	o := newOptions(opts)
	if err := o.check("list", groupItems); err != nil {
		return nil, err
	}
	t := &List{Base: newBase(o, ""), elem: elem.Clone()}
	if o.MinItems != nil || o.MaxItems != nil {
		count, err := valid.NewLength(o.MinItems, o.MaxItems)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidOption, err.Error())
		}
		t.count = count
	}
	t.validator = o.Validator
	return t, nil
}

func (t *List) Tag() Tag {
	return TagList
}

// Elem 返回元素类型的副本
func (t *List) Elem() Type {
	return t.elem.Clone()
}

func items(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func (t *List) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	elems, ok := items(v)
	if !ok {
		return valid.Invalid("expected a list of items but got type: %T", v)
	}
	c := &valid.Collector{}
	for i, e := range elems {
		c.AddIndex(i, t.elem.Valid(name, e))
	}
	return c.Err()
}

// Check 先检查元素个数，再逐个检查元素，元素失败全部聚合
func (t *List) Check(v any) error {
	if v == nil && !t.required {
		return nil
	}
	if err := t.Base.Check(v); err != nil {
		return err
	}
	elems, ok := items(v)
	if !ok {
		return valid.Invalid("expected a list of items but got type: %T", v)
	}
	if t.count != nil {
		if err := t.count.Valid(elems); err != nil {
			return err
		}
	}
	c := &valid.Collector{}
	for i, e := range elems {
		if e == nil && !t.elem.Meta().Required() {
			continue
		}
		c.AddIndex(i, t.elem.Check(e))
	}
	return c.Err()
}

func (t *List) GenInvalid() any {
	n := 1
	if t.count != nil {
		if m, ok := t.count.InvalidLen(); ok {
			n = m
		}
	}
	out := make([]any, n)
	for i := range out {
		out[i] = t.elem.GenInvalid()
	}
	return out
}

// Serialize 字符串输入按 JSON 数组解析
func (t *List) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		var decoded []any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, valid.Invalid("expected a list of items but got %q", s)
		}
		v = decoded
	}
	return t.each(v, t.elem.Serialize)
}

func (t *List) Deserialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return t.each(v, t.elem.Deserialize)
}

func (t *List) each(v any, fn func(any) (any, error)) (any, error) {
	elems, ok := items(v)
	if !ok {
		return nil, valid.Invalid("expected a list of items but got type: %T", v)
	}
	out := make([]any, len(elems))
	c := &valid.Collector{}
	for i, e := range elems {
		r, err := fn(e)
		c.AddIndex(i, err)
		out[i] = r
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *List) Clone() Type {
	return &List{Base: t.Base.clone(), elem: t.elem.Clone(), count: t.count}
}
