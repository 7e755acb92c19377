package loader

import (
	"github.com/hatlonely/typedef/field"
)

// Document 模型定义文档
type Document struct {
	Models []*ModelSpec `json:"models" yaml:"models" toml:"models" validate:"required,min=1,dive,required"`
}

type ModelSpec struct {
	Name        string       `json:"name" yaml:"name" toml:"name" validate:"required"`
	Description string       `json:"description,omitempty" yaml:"description" toml:"description"`
	Storage     string       `json:"storage,omitempty" yaml:"storage" toml:"storage" validate:"omitempty,oneof=mysql sqlite"`
	Fields      []*FieldSpec `json:"fields" yaml:"fields" toml:"fields" validate:"required,min=1,dive,required"`
	Indexes     []*IndexSpec `json:"indexes,omitempty" yaml:"indexes" toml:"indexes" validate:"omitempty,dive,required"`
}

type IndexSpec struct {
	Name    string   `json:"name,omitempty" yaml:"name" toml:"name"`
	Columns []string `json:"columns" yaml:"columns" toml:"columns" validate:"required,min=1,dive,required"`
	Kind    string   `json:"kind,omitempty" yaml:"kind" toml:"kind" validate:"omitempty,oneof=btree hash"`
	Prefix  string   `json:"prefix,omitempty" yaml:"prefix" toml:"prefix"`
}

// FieldSpec 字段描述，Type 为注册表中的类型名
//
// Elem 和 Model 用于 list，Fields 和 Model 用于 dict，Items 用于 enum，
// 枚举项的值取自其 Default
type FieldSpec struct {
	Name        string       `json:"name,omitempty" yaml:"name" toml:"name"`
	Type        string       `json:"type" yaml:"type" toml:"type" validate:"required"`
	Description string       `json:"description,omitempty" yaml:"description" toml:"description"`
	Optional    bool         `json:"optional,omitempty" yaml:"optional" toml:"optional"`
	Default     any          `json:"default,omitempty" yaml:"default" toml:"default"`
	Minimum     *float64     `json:"minimum,omitempty" yaml:"minimum" toml:"minimum"`
	Maximum     *float64     `json:"maximum,omitempty" yaml:"maximum" toml:"maximum"`
	MinLength   *int         `json:"minLength,omitempty" yaml:"minLength" toml:"minLength" validate:"omitempty,gte=0"`
	MaxLength   *int         `json:"maxLength,omitempty" yaml:"maxLength" toml:"maxLength" validate:"omitempty,gte=0"`
	MinItems    *int         `json:"minItems,omitempty" yaml:"minItems" toml:"minItems" validate:"omitempty,gte=0"`
	MaxItems    *int         `json:"maxItems,omitempty" yaml:"maxItems" toml:"maxItems" validate:"omitempty,gte=0"`
	InFormat    string       `json:"inFormat,omitempty" yaml:"inFormat" toml:"inFormat"`
	OutFormat   string       `json:"outFormat,omitempty" yaml:"outFormat" toml:"outFormat"`
	Timezone    string       `json:"timezone,omitempty" yaml:"timezone" toml:"timezone"`
	Choices     []any        `json:"choices,omitempty" yaml:"choices" toml:"choices"`
	Places      *int32       `json:"places,omitempty" yaml:"places" toml:"places" validate:"omitempty,gte=0"`
	Elem        *FieldSpec   `json:"elem,omitempty" yaml:"elem" toml:"elem"`
	Fields      []*FieldSpec `json:"fields,omitempty" yaml:"fields" toml:"fields" validate:"omitempty,dive,required"`
	Model       string       `json:"model,omitempty" yaml:"model" toml:"model"`
	Items       []*FieldSpec `json:"items,omitempty" yaml:"items" toml:"items" validate:"omitempty,dive,required"`
	Column      *ColumnSpec  `json:"column,omitempty" yaml:"column" toml:"column"`
}

type ColumnSpec struct {
	PrimaryKey bool   `json:"primaryKey,omitempty" yaml:"primaryKey" toml:"primaryKey"`
	Nullable   bool   `json:"nullable,omitempty" yaml:"nullable" toml:"nullable"`
	Index      bool   `json:"index,omitempty" yaml:"index" toml:"index"`
	Unique     bool   `json:"unique,omitempty" yaml:"unique" toml:"unique"`
	Length     *int   `json:"length,omitempty" yaml:"length" toml:"length" validate:"omitempty,gt=0"`
	Foreign    string `json:"foreign,omitempty" yaml:"foreign" toml:"foreign"`
	Type       string `json:"type,omitempty" yaml:"type" toml:"type"`
}

// options 转换除 default 和 choices 以外的通用属性，这两项需要先经过字段类型的解析
func (s *FieldSpec) options() []field.Option {
	var opts []field.Option
	if s.Description != "" {
		opts = append(opts, field.Description(s.Description))
	}
	if s.Optional {
		opts = append(opts, field.Optional())
	}
	if s.Minimum != nil {
		opts = append(opts, field.Min(*s.Minimum))
	}
	if s.Maximum != nil {
		opts = append(opts, field.Max(*s.Maximum))
	}
	if s.MinLength != nil {
		opts = append(opts, field.MinLength(*s.MinLength))
	}
	if s.MaxLength != nil {
		opts = append(opts, field.MaxLength(*s.MaxLength))
	}
	if s.MinItems != nil {
		opts = append(opts, field.MinItems(*s.MinItems))
	}
	if s.MaxItems != nil {
		opts = append(opts, field.MaxItems(*s.MaxItems))
	}
	if s.InFormat != "" {
		opts = append(opts, field.InFormat(s.InFormat))
	}
	if s.OutFormat != "" {
		opts = append(opts, field.OutFormat(s.OutFormat))
	}
	if s.Timezone != "" {
		opts = append(opts, field.Timezone(s.Timezone))
	}
	if s.Places != nil {
		opts = append(opts, field.Places(*s.Places))
	}
	if s.Column != nil {
		opts = append(opts, field.Column(s.Column.options()...))
	}
	return opts
}

func (c *ColumnSpec) options() []field.ColumnOption {
	var opts []field.ColumnOption
	if c.PrimaryKey {
		opts = append(opts, field.PrimaryKey())
	}
	if c.Nullable {
		opts = append(opts, field.Nullable())
	}
	if c.Index {
		opts = append(opts, field.Indexed())
	}
	if c.Unique {
		opts = append(opts, field.Unique())
	}
	if c.Length != nil {
		opts = append(opts, field.Length(*c.Length))
	}
	if c.Foreign != "" {
		opts = append(opts, field.Foreign(c.Foreign))
	}
	if c.Type != "" {
		opts = append(opts, field.StorageType(c.Type))
	}
	return opts
}
