package field

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/valid"
)

// Entry Dict 中的一个具名字段
type Entry struct {
	Name string
	Type Type
}

// Dict 复合类型，字段保持声明顺序，失败按字段名聚合
type Dict struct {
	Base
	names []string
	types map[string]Type
}

func NewDict(entries []Entry, opts ...Option) (*Dict, error) {
	o := newOptions(opts)
	if err := o.check("dict", 0); err != nil {
		return nil, err
	}
	t := &Dict{Base: newBase(o, ""), types: map[string]Type{}}
	t.validator = o.Validator
	for _, e := range entries {
		if err := t.add(e.Name, e.Type); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Dict) add(name string, typ Type) error {
	if name == "" {
		return errors.Wrap(ErrInvalidOption, "dict: empty field name")
	}
	if typ == nil {
		return errors.Wrapf(ErrInvalidOption, "dict: field %q has nil type", name)
	}
	if _, ok := t.types[name]; ok {
		return errors.Wrapf(ErrInvalidOption, "dict: duplicate field %q", name)
	}
	t.names = append(t.names, name)
	t.types[name] = typ.Clone()
	return nil
}

// Add 返回追加了字段的新 Dict，原 Dict 不变
func (t *Dict) Add(name string, typ Type) (*Dict, error) {
	c := t.Clone().(*Dict)
	if err := c.add(name, typ); err != nil {
		return nil, err
	}
	return c, nil
}

func (t *Dict) Tag() Tag {
	return TagDict
}

func (t *Dict) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Dict) Len() int {
	return len(t.names)
}

// Get 返回字段类型的副本
func (t *Dict) Get(name string) (Type, bool) {
	typ, ok := t.types[name]
	if !ok {
		return nil, false
	}
	return typ.Clone(), true
}

func (t *Dict) Entries() []Entry {
	out := make([]Entry, 0, len(t.names))
	for _, n := range t.names {
		out = append(out, Entry{Name: n, Type: t.types[n].Clone()})
	}
	return out
}

// fields 把 map 或 struct 展开为 name -> value
func fields(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	case reflect.Struct:
		out := map[string]any{}
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup("json"); ok {
				if n := tagName(tag); n == "-" {
					continue
				} else if n != "" {
					name = n
				}
			}
			out[name] = rv.Field(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

func tagName(tag string) string {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

func (t *Dict) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	m, ok := fields(v)
	if !ok {
		return valid.Invalid("expected a dictionary of items but got type: %T", v)
	}
	c := &valid.Collector{}
	for _, n := range t.names {
		c.Add(n, t.types[n].Valid(n, m[n]))
	}
	return c.Err()
}

// Check 缺失的可选字段跳过
func (t *Dict) Check(v any) error {
	if v == nil && !t.required {
		return nil
	}
	if err := t.Base.Check(v); err != nil {
		return err
	}
	m, ok := fields(v)
	if !ok {
		return valid.Invalid("expected a dictionary of items but got type: %T", v)
	}
	c := &valid.Collector{}
	for _, n := range t.names {
		typ := t.types[n]
		item := m[n]
		if item == nil && !typ.Meta().Required() {
			continue
		}
		c.Add(n, typ.Check(item))
	}
	return c.Err()
}

func (t *Dict) GenInvalid() any {
	out := make(map[string]any, len(t.names))
	for _, n := range t.names {
		out[n] = t.types[n].GenInvalid()
	}
	return out
}

func (t *Dict) Serialize(v any) (any, error) {
	return t.each(v, Type.Serialize)
}

func (t *Dict) Deserialize(v any) (any, error) {
	return t.each(v, Type.Deserialize)
}

// each 只输出声明过的字段，缺失的字段不会补齐
func (t *Dict) each(v any, fn func(Type, any) (any, error)) (any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := fields(v)
	if !ok {
		return nil, valid.Invalid("expected a dictionary of items but got type: %T", v)
	}
	out := make(map[string]any, len(t.names))
	c := &valid.Collector{}
	for _, n := range t.names {
		item, present := m[n]
		if !present {
			continue
		}
		r, err := fn(t.types[n], item)
		c.Add(n, err)
		out[n] = r
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Dict) Clone() Type {
	c := &Dict{
		Base:  t.Base.clone(),
		names: append([]string(nil), t.names...),
		types: make(map[string]Type, len(t.types)),
	}
	for k, v := range t.types {
		c.types[k] = v.Clone()
	}
	return c
}
