package valid

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Validator 细粒度的值校验，GenInvalid 生成一个必然无法通过校验的值
type Validator interface {
	Valid(v any) error
	GenInvalid() any
}

// Empty 不做任何校验
type Empty struct{}

func (Empty) Valid(v any) error { return nil }

func (Empty) GenInvalid() any { return nil }

// Greater 要求数值大于 N，Inclusive 时允许等于
type Greater struct {
	N         float64
	Inclusive bool
	Integral  bool
}

func (g *Greater) Valid(v any) error {
	f, ok := ToFloat(v)
	if !ok {
		return Invalid("must be a number, but got %v", v)
	}
	if f < g.N || (f == g.N && !g.Inclusive) {
		if g.Inclusive {
			return Invalid("must be greater than or equal to %s, but got %v", formatNumber(g.N), v)
		}
		return Invalid("must be greater than %s, but got %v", formatNumber(g.N), v)
	}
	return nil
}

func (g *Greater) GenInvalid() any {
	if !g.Inclusive {
		return typedNumber(g.N, g.Integral && g.N == math.Trunc(g.N))
	}
	return below(g.N, g.Integral)
}

// Less 要求数值小于 N，Inclusive 时允许等于
type Less struct {
	N         float64
	Inclusive bool
	Integral  bool
}

func (l *Less) Valid(v any) error {
	f, ok := ToFloat(v)
	if !ok {
		return Invalid("must be a number, but got %v", v)
	}
	if f > l.N || (f == l.N && !l.Inclusive) {
		if l.Inclusive {
			return Invalid("must be less than or equal to %s, but got %v", formatNumber(l.N), v)
		}
		return Invalid("must be less than %s, but got %v", formatNumber(l.N), v)
	}
	return nil
}

func (l *Less) GenInvalid() any {
	if !l.Inclusive {
		return typedNumber(l.N, l.Integral && l.N == math.Trunc(l.N))
	}
	return above(l.N, l.Integral)
}

// Range 要求数值落在闭区间 [Min, Max]
type Range struct {
	Min      float64
	Max      float64
	Integral bool
}

func (r *Range) Valid(v any) error {
	f, ok := ToFloat(v)
	if !ok {
		return Invalid("must be a number, but got %v", v)
	}
	if f < r.Min || f > r.Max {
		return Invalid("%v is out of range [%s, %s]", v, formatNumber(r.Min), formatNumber(r.Max))
	}
	return nil
}

func (r *Range) GenInvalid() any {
	return above(r.Max, r.Integral)
}

// above 返回严格大于 f 的值，f 超过 2^53 时加一会被舍入吸收，改取下一个可表示的浮点数
func above(f float64, integral bool) any {
	if integral {
		if n := int64(math.Floor(f)) + 1; float64(n) > f {
			return n
		}
		return int64(math.Ceil(math.Nextafter(f, math.Inf(1))))
	}
	if c := f + 1; c > f {
		return c
	}
	return math.Nextafter(f, math.Inf(1))
}

// below 返回严格小于 f 的值
func below(f float64, integral bool) any {
	if integral {
		if n := int64(math.Ceil(f)) - 1; float64(n) < f {
			return n
		}
		return int64(math.Floor(math.Nextafter(f, math.Inf(-1))))
	}
	if c := f - 1; c < f {
		return c
	}
	return math.Nextafter(f, math.Inf(-1))
}

// NewBound 按上下界组合出校验器：都没有时不校验，只有一个时单边校验，两个都有时区间校验
func NewBound(min, max *float64, integral bool) (Validator, error) {
	switch {
	case min == nil && max == nil:
		return Empty{}, nil
	case max == nil:
		return &Greater{N: *min, Inclusive: true, Integral: integral}, nil
	case min == nil:
		return &Less{N: *max, Inclusive: true, Integral: integral}, nil
	case *min > *max:
		return nil, errors.Errorf("minimum %s is greater than maximum %s", formatNumber(*min), formatNumber(*max))
	default:
		return &Range{Min: *min, Max: *max, Integral: integral}, nil
	}
}

// Choice N 为 1 时值必须在 Data 中；N 大于 1 时值必须是恰好 N 个不同且都在 Data 中的元素组成的列表
type Choice struct {
	N    int
	Data []any
}

func NewChoice(n int, data ...any) (*Choice, error) {
	if n < 1 {
		return nil, errors.Errorf("choice count must be positive, got %d", n)
	}
	if len(data) == 0 {
		return nil, errors.New("choice data is empty")
	}
	return &Choice{N: n, Data: append([]any(nil), data...)}, nil
}

func (c *Choice) contains(v any) bool {
	for _, d := range c.Data {
		if equalValue(d, v) {
			return true
		}
	}
	return false
}

func (c *Choice) Valid(v any) error {
	if c.N == 1 {
		if !c.contains(v) {
			return Invalid("%v is not valid with choice condition: n = %d, data = %v", v, c.N, c.Data)
		}
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Invalid("%v is not valid with choice condition: n = %d, data = %v", v, c.N, c.Data)
	}
	if rv.Len() != c.N {
		return Invalid("%v is not valid with choice condition: n = %d, data = %v", v, c.N, c.Data)
	}
	var seen []any
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if !c.contains(item) {
			return Invalid("%v is not valid with choice condition: n = %d, data = %v", v, c.N, c.Data)
		}
		for _, s := range seen {
			if equalValue(s, item) {
				return Invalid("%v is not valid with choice condition: n = %d, data = %v", v, c.N, c.Data)
			}
		}
		seen = append(seen, item)
	}
	return nil
}

func (c *Choice) GenInvalid() any {
	one := c.genInvalidOne()
	if c.N == 1 {
		return one
	}
	items := make([]any, c.N+1)
	for i := range items {
		items[i] = one
	}
	return items
}

func (c *Choice) genInvalidOne() any {
	var (
		strs     []string
		maxNum   float64
		hasNum   bool
		integral = true
		hasTrue  bool
		hasFalse bool
	)
	for _, d := range c.Data {
		switch x := d.(type) {
		case string:
			strs = append(strs, x)
		case bool:
			if x {
				hasTrue = true
			} else {
				hasFalse = true
			}
		default:
			if f, ok := ToFloat(d); ok {
				if !hasNum || f > maxNum {
					maxNum = f
				}
				hasNum = true
				integral = integral && IsIntegral(d)
			}
		}
	}

	switch {
	case len(strs) > 0:
		return strings.Join(strs, "") + "_invalid"
	case hasNum:
		return typedNumber(math.Floor(maxNum)+1, integral)
	case hasTrue && hasFalse:
		return "invalid"
	case hasTrue:
		return false
	case hasFalse:
		return true
	default:
		return nil
	}
}

// Length 校验字符串、列表或映射的长度
type Length struct {
	Min *int
	Max *int
}

func NewLength(min, max *int) (*Length, error) {
	if min == nil && max == nil {
		return nil, errors.New("length validator requires a minimum or a maximum")
	}
	if min != nil && *min < 0 {
		return nil, errors.Errorf("minimum length %d is negative", *min)
	}
	if max != nil && *max < 0 {
		return nil, errors.Errorf("maximum length %d is negative", *max)
	}
	if min != nil && max != nil && *min > *max {
		return nil, errors.Errorf("minimum length %d is greater than maximum length %d", *min, *max)
	}
	return &Length{Min: min, Max: max}, nil
}

func lengthOf(v any) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func (l *Length) Valid(v any) error {
	n, ok := lengthOf(v)
	if !ok {
		return Invalid("length is not applicable to type %T", v)
	}
	if l.Min != nil && n < *l.Min {
		return Invalid("length %d is less than minimum length %d", n, *l.Min)
	}
	if l.Max != nil && n > *l.Max {
		return Invalid("length %d is greater than maximum length %d", n, *l.Max)
	}
	return nil
}

// InvalidLen 返回一个违反约束的长度，没有可违反的长度时 ok 为 false
func (l *Length) InvalidLen() (int, bool) {
	if l.Min != nil && *l.Min > 0 {
		return *l.Min - 1, true
	}
	if l.Max != nil {
		return *l.Max + 1, true
	}
	return 0, false
}

func (l *Length) GenInvalid() any {
	n, ok := l.InvalidLen()
	if !ok {
		return nil
	}
	return strings.Repeat("x", n)
}

func (l *Length) String() string {
	lo, hi := "-", "-"
	if l.Min != nil {
		lo = fmt.Sprint(*l.Min)
	}
	if l.Max != nil {
		hi = fmt.Sprint(*l.Max)
	}
	return fmt.Sprintf("length[%s, %s]", lo, hi)
}

func equalValue(a, b any) bool {
	fa, oka := ToFloat(a)
	fb, okb := ToFloat(b)
	if oka && okb {
		return fa == fb
	}
	if oka != okb {
		return false
	}
	return reflect.DeepEqual(a, b)
}
