package field

import (
	"github.com/hatlonely/typedef/valid"
)

// Type 字段类型
//
// Valid 做必填和粗粒度的类型检查；Check 把值经过提取函数后交给校验器做细粒度检查；
// Serialize 把内部值转为线上表示，Deserialize 是其逆过程，无法解析时返回 *valid.Error。
// 所有实现都内嵌 Base，外部包无法实现该接口。
type Type interface {
	Tag() Tag
	Meta() *Base
	Valid(name string, v any) error
	Check(v any) error
	GenInvalid() any
	Serialize(v any) (any, error)
	Deserialize(v any) (any, error)
	ColumnType() string
	Clone() Type

	sealed()
}

// Base 所有字段类型共有的属性，构造后只读
type Base struct {
	required     bool
	defaultValue any
	description  string
	validator    valid.Validator
	extractor    func(any) any
	origin       string
	source       ArgSource
	column       *ColumnInfo
	columnType   string
}

func newBase(o *Options, columnType string) Base {
	b := Base{
		required:     o.Required,
		defaultValue: o.Default,
		description:  o.Description,
		extractor:    o.Extractor,
		origin:       o.Origin,
		source:       o.Source,
		columnType:   columnType,
	}
	if o.Column != nil {
		c := o.Column.clone()
		b.column = &c
	}
	return b
}

func (b *Base) Meta() *Base {
	return b
}

func (b *Base) sealed() {}

func (b *Base) Required() bool {
	return b.required
}

func (b *Base) Default() any {
	return b.defaultValue
}

func (b *Base) Description() string {
	return b.description
}

func (b *Base) Validator() valid.Validator {
	if b.validator == nil {
		return valid.Empty{}
	}
	return b.validator
}

func (b *Base) Origin() string {
	return b.origin
}

func (b *Base) Source() ArgSource {
	return b.source
}

func (b *Base) ColumnType() string {
	return b.columnType
}

func (b *Base) IsColumn() bool {
	return b.column != nil
}

// Column 返回列信息的副本，存储类型未显式指定时取字段类型的 ColumnType
func (b *Base) Column() (ColumnInfo, bool) {
	if b.column == nil {
		return ColumnInfo{}, false
	}
	c := b.column.clone()
	if c.Type == "" {
		c.Type = b.columnType
	}
	return c, true
}

// GenInvalid 标量类型生成非法值
func (b *Base) GenInvalid() any {
	return b.Validator().GenInvalid()
}

func (b *Base) Check(v any) error {
	if b.validator == nil {
		return nil
	}
	if b.extractor != nil {
		v = b.extractor(v)
	}
	if v == nil && !b.required {
		return nil
	}
	return b.validator.Valid(v)
}

// validNull 处理空值，done 为 true 时调用方不需要继续检查
func (b *Base) validNull(name string, v any) (done bool, err error) {
	if v != nil {
		return false, nil
	}
	if b.required {
		return true, valid.Null(name, v)
	}
	return true, nil
}

func (b *Base) clone() Base {
	c := *b
	if b.column != nil {
		col := b.column.clone()
		c.column = &col
	}
	return c
}

// WithRequired 返回修改了必填属性的副本
func WithRequired(t Type, required bool) Type {
	c := t.Clone()
	c.Meta().required = required
	return c
}

// WithoutColumn 返回去掉列信息的副本
func WithoutColumn(t Type) Type {
	c := t.Clone()
	c.Meta().column = nil
	return c
}

// WithColumn 返回合并了列信息的副本
func WithColumn(t Type, opts ...ColumnOption) Type {
	c := t.Clone()
	b := c.Meta()
	if b.column == nil {
		b.column = &ColumnInfo{}
	}
	for _, opt := range opts {
		opt(b.column)
	}
	return c
}

// Must 构造失败时 panic，用于包级别的模型定义
func Must[T Type](t T, err error) T {
	if err != nil {
		panic(err)
	}
	return t
}
