package field

import (
	"github.com/hatlonely/typedef/valid"
)

var (
	trueValues  = map[string]struct{}{"t": {}, "T": {}, "y": {}, "Y": {}, "yes": {}, "YES": {}, "true": {}, "True": {}, "TRUE": {}, "on": {}, "On": {}, "ON": {}, "1": {}}
	falseValues = map[string]struct{}{"f": {}, "F": {}, "n": {}, "N": {}, "no": {}, "NO": {}, "false": {}, "False": {}, "FALSE": {}, "off": {}, "Off": {}, "OFF": {}, "0": {}}
	nullValues  = map[string]struct{}{"null": {}, "Null": {}, "NULL": {}, "": {}}
)

// Bool 布尔类型，接受常见的真假字面量
type Bool struct {
	Base
}

func NewBool(opts ...Option) (*Bool, error) {
	o := newOptions(opts)
	if err := o.check("bool", groupChoices|groupColumn); err != nil {
		return nil, err
	}
	b := &Bool{Base: newBase(o, "Boolean")}
	vd, err := o.scalarValidator(false)
	if err != nil {
		return nil, err
	}
	b.validator = vd
	return b, nil
}

func (t *Bool) Tag() Tag {
	return TagBool
}

// parse 返回 (值, 是否为空字面量, 是否识别)
func (t *Bool) parse(v any) (bool, bool, bool) {
	switch x := v.(type) {
	case nil:
		return false, true, true
	case bool:
		return x, false, true
	case string:
		if _, ok := trueValues[x]; ok {
			return true, false, true
		}
		if _, ok := falseValues[x]; ok {
			return false, false, true
		}
		if _, ok := nullValues[x]; ok {
			return false, true, true
		}
		return false, false, false
	}
	if f, ok := valid.ToFloat(v); ok {
		switch f {
		case 1:
			return true, false, true
		case 0:
			return false, false, true
		}
	}
	return false, false, false
}

func (t *Bool) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	_, err := t.Deserialize(v)
	return err
}

func (t *Bool) Serialize(v any) (any, error) {
	return t.Deserialize(v)
}

func (t *Bool) Deserialize(v any) (any, error) {
	b, null, ok := t.parse(v)
	switch {
	case !ok:
		return nil, valid.Invalid("must be a valid boolean but got type: %T", v)
	case null && !t.required:
		return nil, nil
	case null:
		return nil, valid.Invalid("must be a valid boolean but got %v", v)
	default:
		return b, nil
	}
}

func (t *Bool) Clone() Type {
	return &Bool{Base: t.Base.clone()}
}
