package model

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/field"
)

// Mode 字段在查询中的聚合方式
type Mode int

const (
	ModeNormal Mode = iota
	ModeCount
	ModeSum
)

func (m Mode) String() string {
	switch m {
	case ModeCount:
		return "count"
	case ModeSum:
		return "sum"
	default:
		return "normal"
	}
}

// ModelField 绑定到所属模型的列字段，不可变，As/Count/Sum 都返回副本
type ModelField struct {
	model  *Model
	column field.ColumnInfo
	typ    field.Type
	alias  string
	mode   Mode
}

// Field 取模型中的列字段，字段必须声明为列
func (m *Model) Field(name string) (*ModelField, error) {
	t, ok := m.fields.Get(name)
	if !ok {
		return nil, errors.Errorf("model %s has no field %q", m.name, name)
	}
	col, ok := t.Meta().Column()
	if !ok {
		return nil, errors.Errorf("field %q of model %s is not a column", name, m.name)
	}
	col.Name = name
	return &ModelField{model: m, column: col, typ: t}, nil
}

func (m *Model) MustField(name string) *ModelField {
	f, err := m.Field(name)
	if err != nil {
		panic(err)
	}
	return f
}

// F MustField 的简写
func (m *Model) F(name string) *ModelField {
	return m.MustField(name)
}

// ColumnFields 按声明顺序返回所有列字段
func (m *Model) ColumnFields() []*ModelField {
	var out []*ModelField
	for _, c := range m.Columns() {
		out = append(out, m.MustField(c.Name))
	}
	return out
}

func (f *ModelField) Model() *Model {
	return f.model
}

func (f *ModelField) ModelName() string {
	return f.model.name
}

func (f *ModelField) ColumnName() string {
	return f.column.Name
}

func (f *ModelField) Alias() string {
	return f.alias
}

// Label 结果中的名字，有别名时取别名
func (f *ModelField) Label() string {
	if f.alias != "" {
		return f.alias
	}
	return f.column.Name
}

func (f *ModelField) Column() field.ColumnInfo {
	return f.column
}

func (f *ModelField) Type() field.Type {
	return f.typ.Clone()
}

func (f *ModelField) Mode() Mode {
	return f.mode
}

func (f *ModelField) with(fn func(*ModelField)) *ModelField {
	c := *f
	fn(&c)
	return &c
}

func (f *ModelField) As(alias string) *ModelField {
	return f.with(func(c *ModelField) { c.alias = alias })
}

func (f *ModelField) Count() *ModelField {
	return f.with(func(c *ModelField) { c.mode = ModeCount })
}

func (f *ModelField) Sum() *ModelField {
	return f.with(func(c *ModelField) { c.mode = ModeSum })
}

// Same 模型名、列名和别名都相同
func (f *ModelField) Same(other *ModelField) bool {
	if other == nil {
		return false
	}
	return f.ModelName() == other.ModelName() && f.ColumnName() == other.ColumnName() && f.alias == other.alias
}

func (f *ModelField) compare(tag expr.OpTag, v any) *expr.Op {
	op, err := expr.Compare(tag, f, v)
	if err != nil {
		panic(err)
	}
	return op
}

func (f *ModelField) Eq(v any) *expr.Op { return f.compare(expr.OpEq, v) }
func (f *ModelField) Ne(v any) *expr.Op { return f.compare(expr.OpNe, v) }
func (f *ModelField) Lt(v any) *expr.Op { return f.compare(expr.OpLt, v) }
func (f *ModelField) Le(v any) *expr.Op { return f.compare(expr.OpLe, v) }
func (f *ModelField) Gt(v any) *expr.Op { return f.compare(expr.OpGt, v) }
func (f *ModelField) Ge(v any) *expr.Op { return f.compare(expr.OpGe, v) }

func (f *ModelField) Like(pattern any) *expr.Op { return f.compare(expr.OpLike, pattern) }

// In 可以传多个值，也可以传一个列表或一个参数引用
func (f *ModelField) In(values ...any) *expr.Op {
	return f.compare(expr.OpIn, listOperand(values))
}

func (f *ModelField) NotIn(values ...any) *expr.Op {
	return f.compare(expr.OpNotIn, listOperand(values))
}

func listOperand(values []any) any {
	if len(values) == 1 {
		switch v := values[0].(type) {
		case *expr.Arg:
			return v
		default:
			if v != nil {
				if k := reflect.TypeOf(v).Kind(); k == reflect.Slice || k == reflect.Array {
					return v
				}
			}
		}
	}
	return append([]any{}, values...)
}

// Set 更新赋值
func (f *ModelField) Set(v any) *expr.Op {
	return f.compare(expr.OpEq, v)
}

// On 与另一个字段的等值连接条件，任一方为 nil 时 panic
func (f *ModelField) On(other *ModelField) *expr.JoinCond {
	if f == nil || other == nil {
		panic(errors.Wrap(expr.ErrInvalidExpr, "join condition needs two fields"))
	}
	j, err := expr.On(expr.OpEq, f, other)
	if err != nil {
		panic(err)
	}
	return j
}

func (f *ModelField) String() string {
	s := f.ModelName() + "." + f.ColumnName()
	if f.mode != ModeNormal {
		s = fmt.Sprintf("%s(%s)", f.mode, s)
	}
	if f.alias != "" {
		s += " AS " + f.alias
	}
	return s
}
