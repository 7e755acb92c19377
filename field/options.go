package field

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/valid"
)

// ErrInvalidOption 构造字段类型时传入了该类型不支持的配置或非法的配置组合
var ErrInvalidOption = errors.New("invalid field option")

// Options 所有字段类型共用的配置
type Options struct {
	Description string    `cfg:"description"`
	Required    bool      `cfg:"required" def:"true"`
	Default     any       `cfg:"default" validate:"-"`
	Origin      string    `cfg:"origin"`
	Source      ArgSource `cfg:"source" validate:"omitempty,oneof=UNKNOWN HEADER BODY PARAMS PATH RPC"`

	Min       *float64 `cfg:"minimum"`
	Max       *float64 `cfg:"maximum"`
	MinLength *int     `cfg:"minLength" validate:"omitempty,gte=0"`
	MaxLength *int     `cfg:"maxLength" validate:"omitempty,gte=0"`
	MinItems  *int     `cfg:"minItems" validate:"omitempty,gte=0"`
	MaxItems  *int     `cfg:"maxItems" validate:"omitempty,gte=0"`
	InFormat  string   `cfg:"inFormat"`
	OutFormat string   `cfg:"outFormat"`
	Timezone  string   `cfg:"timezone" validate:"omitempty,timezone"`
	Choices   []any    `cfg:"choices" validate:"-"`
	Places    *int32   `cfg:"places" validate:"omitempty,gte=0"`

	Validator valid.Validator `validate:"-"`
	Extractor func(any) any   `validate:"-"`
	Column    *ColumnInfo     `cfg:"column"`
}

type Option func(*Options)

func Description(desc string) Option {
	return func(o *Options) { o.Description = desc }
}

// Optional 等价于 Required(false)
func Optional() Option {
	return func(o *Options) { o.Required = false }
}

func Required(required bool) Option {
	return func(o *Options) { o.Required = required }
}

func Default(v any) Option {
	return func(o *Options) { o.Default = v }
}

func Min(n float64) Option {
	return func(o *Options) { o.Min = &n }
}

func Max(n float64) Option {
	return func(o *Options) { o.Max = &n }
}

func MinLength(n int) Option {
	return func(o *Options) { o.MinLength = &n }
}

func MaxLength(n int) Option {
	return func(o *Options) { o.MaxLength = &n }
}

func MinItems(n int) Option {
	return func(o *Options) { o.MinItems = &n }
}

func MaxItems(n int) Option {
	return func(o *Options) { o.MaxItems = &n }
}

// InFormat 反序列化时的时间格式，使用 Go 的 layout 写法
func InFormat(layout string) Option {
	return func(o *Options) { o.InFormat = layout }
}

// OutFormat 序列化时的时间格式
func OutFormat(layout string) Option {
	return func(o *Options) { o.OutFormat = layout }
}

func Timezone(name string) Option {
	return func(o *Options) { o.Timezone = name }
}

func Choices(values ...any) Option {
	return func(o *Options) { o.Choices = append(make([]any, 0, len(values)), values...) }
}

func MustTrue() Option {
	return Choices(true)
}

func MustFalse() Option {
	return Choices(false)
}

// Places 小数位数
func Places(n int32) Option {
	return func(o *Options) { o.Places = &n }
}

// Origin 该字段是某个原始字段的别名
func Origin(name string) Option {
	return func(o *Options) { o.Origin = name }
}

func FromSource(s ArgSource) Option {
	return func(o *Options) { o.Source = s }
}

func WithValidator(v valid.Validator) Option {
	return func(o *Options) { o.Validator = v }
}

// WithExtractor 校验前先用 fn 从值中取出要校验的部分
func WithExtractor(fn func(any) any) Option {
	return func(o *Options) { o.Extractor = fn }
}

// Column 把字段声明为存储列
func Column(opts ...ColumnOption) Option {
	return func(o *Options) {
		if o.Column == nil {
			o.Column = &ColumnInfo{}
		}
		for _, opt := range opts {
			opt(o.Column)
		}
	}
}

type group uint

const (
	groupBounds group = 1 << iota
	groupLength
	groupItems
	groupFormat
	groupTimezone
	groupChoices
	groupPlaces
	groupColumn
)

var groupNames = map[group]string{
	groupBounds:   "minimum/maximum",
	groupLength:   "minLength/maxLength",
	groupItems:    "minItems/maxItems",
	groupFormat:   "inFormat/outFormat",
	groupTimezone: "timezone",
	groupChoices:  "choices",
	groupPlaces:   "places",
	groupColumn:   "column",
}

var validate = validator.New()

func newOptions(opts []Option) *Options {
	o := &Options{Required: true, Source: SourceUnknown}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *Options) used() group {
	var g group
	if o.Min != nil || o.Max != nil {
		g |= groupBounds
	}
	if o.MinLength != nil || o.MaxLength != nil {
		g |= groupLength
	}
	if o.MinItems != nil || o.MaxItems != nil {
		g |= groupItems
	}
	if o.InFormat != "" || o.OutFormat != "" {
		g |= groupFormat
	}
	if o.Timezone != "" {
		g |= groupTimezone
	}
	if o.Choices != nil {
		g |= groupChoices
	}
	if o.Places != nil {
		g |= groupPlaces
	}
	if o.Column != nil {
		g |= groupColumn
	}
	return g
}

// check 拒绝 kind 不支持的配置和互相冲突的配置
func (o *Options) check(kind string, allowed group) error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrapf(ErrInvalidOption, "%s: %v", kind, err)
	}

	used := o.used()
	if extra := used &^ allowed; extra != 0 {
		var names []string
		for g := groupBounds; g <= groupColumn; g <<= 1 {
			if extra&g != 0 {
				names = append(names, groupNames[g])
			}
		}
		return errors.Wrapf(ErrInvalidOption, "%s does not support %s", kind, strings.Join(names, ", "))
	}

	if o.Min != nil && o.Max != nil && *o.Min > *o.Max {
		return errors.Wrapf(ErrInvalidOption, "%s: minimum %v is greater than maximum %v", kind, *o.Min, *o.Max)
	}
	if o.MinLength != nil && o.MaxLength != nil && *o.MinLength > *o.MaxLength {
		return errors.Wrapf(ErrInvalidOption, "%s: minLength %d is greater than maxLength %d", kind, *o.MinLength, *o.MaxLength)
	}
	if o.MinItems != nil && o.MaxItems != nil && *o.MinItems > *o.MaxItems {
		return errors.Wrapf(ErrInvalidOption, "%s: minItems %d is greater than maxItems %d", kind, *o.MinItems, *o.MaxItems)
	}
	if used&groupChoices != 0 && len(o.Choices) == 0 {
		return errors.Wrapf(ErrInvalidOption, "%s: choices is empty", kind)
	}

	constraints := 0
	for _, g := range []group{groupBounds, groupLength, groupChoices} {
		if used&g != 0 {
			constraints++
		}
	}
	if o.Validator != nil {
		constraints++
	}
	if constraints > 1 {
		return errors.Wrapf(ErrInvalidOption, "%s: only one of validator, bounds, length or choices may be set", kind)
	}
	return nil
}

// scalarValidator 根据配置生成标量校验器
func (o *Options) scalarValidator(integral bool) (valid.Validator, error) {
	switch {
	case o.Validator != nil:
		return o.Validator, nil
	case o.Choices != nil:
		return valid.NewChoice(1, o.Choices...)
	case o.MinLength != nil || o.MaxLength != nil:
		return valid.NewLength(o.MinLength, o.MaxLength)
	default:
		return valid.NewBound(o.Min, o.Max, integral)
	}
}
