package field

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hatlonely/typedef/valid"
)

// Decimal 定点小数，设置了 Places 时按四舍五入保留位数
type Decimal struct {
	Base
	places *int32
}

func NewDecimal(opts ...Option) (*Decimal, error) {
	o := newOptions(opts)
	if err := o.check("decimal", groupBounds|groupChoices|groupPlaces|groupColumn); err != nil {
		return nil, err
	}
	t := &Decimal{Base: newBase(o, "DECIMAL")}
	if o.Places != nil {
		p := *o.Places
		t.places = &p
	}
	vd, err := o.scalarValidator(false)
	if err != nil {
		return nil, err
	}
	t.validator = vd
	if t.extractor == nil {
		t.extractor = decimalExtractor
	}
	return t, nil
}

func decimalExtractor(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}

func (t *Decimal) Tag() Tag {
	return TagDouble
}

func (t *Decimal) Places() (int32, bool) {
	if t.places == nil {
		return 0, false
	}
	return *t.places, true
}

func (t *Decimal) parse(v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(x))
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case int32:
		d = decimal.NewFromInt32(x)
	case float64:
		d = decimal.NewFromFloat(x)
	case float32:
		d = decimal.NewFromFloat32(x)
	default:
		return decimal.Zero, valid.Invalid("a valid decimal is required but got type: %T", v)
	}
	if err != nil {
		return decimal.Zero, valid.Convert("a valid decimal is required but got %v", v)
	}
	if t.places != nil {
		d = d.Round(*t.places)
	}
	return d, nil
}

func (t *Decimal) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	_, err := t.parse(v)
	return err
}

func (t *Decimal) Serialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	d, err := t.parse(v)
	if err != nil {
		return nil, err
	}
	if t.places != nil {
		return d.StringFixed(*t.places), nil
	}
	return d.String(), nil
}

func (t *Decimal) Deserialize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	d, err := t.parse(v)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (t *Decimal) Clone() Type {
	c := &Decimal{Base: t.Base.clone()}
	if t.places != nil {
		p := *t.places
		c.places = &p
	}
	return c
}
