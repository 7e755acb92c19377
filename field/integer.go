package field

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/hatlonely/typedef/valid"
)

// Integer 整数类型，BigInteger 和 SmallInteger 只在存储类型上不同
type Integer struct {
	Base
}

func newInteger(kind, columnType string, opts []Option) (*Integer, error) {
	o := newOptions(opts)
	if err := o.check(kind, groupBounds|groupChoices|groupColumn); err != nil {
		return nil, err
	}
	t := &Integer{Base: newBase(o, columnType)}
	vd, err := o.scalarValidator(true)
	if err != nil {
		return nil, err
	}
	t.validator = vd
	return t, nil
}

func NewInteger(opts ...Option) (*Integer, error) {
	return newInteger("integer", "Integer", opts)
}

func NewBigInteger(opts ...Option) (*Integer, error) {
	return newInteger("big integer", "BigInteger", opts)
}

func NewSmallInteger(opts ...Option) (*Integer, error) {
	return newInteger("small integer", "SmallInteger", opts)
}

func (t *Integer) Tag() Tag {
	return TagInteger
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case bool:
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	case uint64:
		return int64(x), x <= math.MaxInt64
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	}
	f, ok := valid.ToFloat(v)
	if !ok || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	}
	return int64(f), true
}

func (t *Integer) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	if _, ok := toInt64(v); !ok {
		return valid.Invalid("a valid integer is required but got type: %T", v)
	}
	return nil
}

func (t *Integer) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, valid.Invalid("a valid integer is required but got type: %T", v)
	}
	return n, nil
}

func (t *Integer) Deserialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, valid.Convert("a valid integer is required but got type: %T", v)
	}
	return n, nil
}

func (t *Integer) Clone() Type {
	return &Integer{Base: t.Base.clone()}
}
