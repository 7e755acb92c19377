package field

import (
	"fmt"
	"strconv"

	"github.com/hatlonely/typedef/valid"
)

// String 字符串类型，Char/Text/Binary/LargeBinary/JSON 只在存储类型上不同
type String struct {
	Base
	binary bool
}

func newString(kind, columnType string, binary bool, opts []Option) (*String, error) {
	o := newOptions(opts)
	if err := o.check(kind, groupLength|groupChoices|groupColumn); err != nil {
		return nil, err
	}
	t := &String{Base: newBase(o, columnType), binary: binary}
	vd, err := o.scalarValidator(false)
	if err != nil {
		return nil, err
	}
	t.validator = vd
	return t, nil
}

func NewString(opts ...Option) (*String, error) {
	return newString("string", "String", false, opts)
}

// NewChar 单个字符，默认长度校验为 [1, 1]
func NewChar(opts ...Option) (*String, error) {
	return newString("char", "CHAR", false, append([]Option{MinLength(1), MaxLength(1), Column(Length(1))}, opts...))
}

func NewText(opts ...Option) (*String, error) {
	return newString("text", "Text", false, opts)
}

func NewJSON(opts ...Option) (*String, error) {
	return newString("json", "JSON", false, opts)
}

func NewBinary(opts ...Option) (*String, error) {
	return newString("binary", "Binary", true, opts)
}

func NewLargeBinary(opts ...Option) (*String, error) {
	return newString("large binary", "LargeBinary", true, opts)
}

func (t *String) Tag() Tag {
	return TagString
}

func (t *String) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	switch v.(type) {
	case string:
		return nil
	case []byte:
		if t.binary {
			return nil
		}
	}
	return valid.Invalid("not a valid string, got type: %T", v)
}

func (t *String) Serialize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (t *String) Deserialize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case []byte:
		if t.binary {
			return string(x), nil
		}
	case bool:
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	default:
		if valid.IsIntegral(v) {
			return fmt.Sprint(v), nil
		}
	}
	return nil, valid.Convert("type: %T not support convert to string", v)
}

func (t *String) Clone() Type {
	return &String{Base: t.Base.clone(), binary: t.binary}
}
