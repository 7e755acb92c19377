package field

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hatlonely/typedef/valid"
)

// Float 浮点类型，Double 与其行为一致，只是标签不同
type Float struct {
	Base
	tag Tag
}

func newFloat(kind string, tag Tag, opts []Option) (*Float, error) {
	o := newOptions(opts)
	if err := o.check(kind, groupBounds|groupChoices|groupColumn); err != nil {
		return nil, err
	}
	t := &Float{Base: newBase(o, "Float"), tag: tag}
	vd, err := o.scalarValidator(false)
	if err != nil {
		return nil, err
	}
	t.validator = vd
	return t, nil
}

func NewFloat(opts ...Option) (*Float, error) {
	return newFloat("float", TagFloat, opts)
}

func NewDouble(opts ...Option) (*Float, error) {
	return newFloat("double", TagDouble, opts)
}

func (t *Float) Tag() Tag {
	return t.tag
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return valid.ToFloat(v)
}

func (t *Float) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	if _, ok := toFloat64(v); !ok {
		return valid.Invalid("a valid %s number is required but got type: %T", t.tag, v)
	}
	return nil
}

func (t *Float) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	f, ok := toFloat64(v)
	if !ok {
		return nil, valid.Invalid("a valid %s number is required but got type: %T", t.tag, v)
	}
	return f, nil
}

func (t *Float) Deserialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	f, ok := toFloat64(v)
	if !ok {
		return nil, valid.Convert("a valid %s number is required but got type: %T", t.tag, v)
	}
	return f, nil
}

func (t *Float) Clone() Type {
	return &Float{Base: t.Base.clone(), tag: t.tag}
}
