package field

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/valid"
)

// EnumItem 枚举项，值取自 Type 的默认值
type EnumItem struct {
	Name string
	Type Type
}

// Enum 枚举类型，所有枚举项必须是同一种标签，值的类型取自第一个枚举项
type Enum struct {
	Base
	name  string
	names []string
	items map[string]Type
	elem  Type
}

func NewEnum(name string, items []EnumItem, opts ...Option) (*Enum, error) {
	if len(items) == 0 {
		return nil, errors.Wrapf(ErrInvalidOption, "enum %s: no items", name)
	}
	o := newOptions(opts)
	if err := o.check("enum", groupColumn); err != nil {
		return nil, err
	}
	if o.Validator != nil {
		return nil, errors.Wrapf(ErrInvalidOption, "enum %s: validator is derived from items", name)
	}
	t := &Enum{Base: newBase(o, ""), name: name, items: map[string]Type{}}
	for _, it := range items {
		if err := t.addItem(it.Name, it.Type); err != nil {
			return nil, err
		}
	}

	elem := items[0].Type.Clone()
	eb := elem.Meta()
	eb.required = o.Required
	eb.defaultValue = o.Default
	eb.description = o.Description
	eb.column = nil
	t.elem = elem
	t.columnType = elem.ColumnType()
	t.rebuildValidator()
	return t, nil
}

func (t *Enum) addItem(name string, typ Type) error {
	if name == "" || typ == nil {
		return errors.Wrapf(ErrInvalidOption, "enum %s: item needs a name and a type", t.name)
	}
	if _, ok := t.items[name]; ok {
		return errors.Wrapf(ErrInvalidOption, "enum %s: duplicate item %q", t.name, name)
	}
	if typ.Tag().IsComposite() || typ.Tag() == TagVoid {
		return errors.Wrapf(ErrInvalidOption, "enum %s: item %q must be a scalar, got %s", t.name, name, typ.Tag())
	}
	if len(t.names) > 0 {
		if first := t.items[t.names[0]]; first.Tag() != typ.Tag() {
			return errors.Wrapf(ErrInvalidOption, "enum %s: item %q is %s, but items are %s", t.name, name, typ.Tag(), first.Tag())
		}
	}
	t.names = append(t.names, name)
	t.items[name] = typ.Clone()
	return nil
}

func (t *Enum) rebuildValidator() {
	data := make([]any, 0, len(t.names))
	for _, n := range t.names {
		data = append(data, t.items[n].Meta().Default())
	}
	t.validator = &valid.Choice{N: 1, Data: data}
}

// AddItem 返回追加了枚举项的新 Enum
func (t *Enum) AddItem(name string, typ Type) (*Enum, error) {
	c := t.Clone().(*Enum)
	if err := c.addItem(name, typ); err != nil {
		return nil, err
	}
	c.rebuildValidator()
	return c, nil
}

func (t *Enum) Tag() Tag {
	return TagEnum
}

func (t *Enum) Name() string {
	return t.name
}

// ItemTag 枚举值的标签
func (t *Enum) ItemTag() Tag {
	return t.elem.Tag()
}

func (t *Enum) ItemNames() []string {
	return append([]string(nil), t.names...)
}

// ItemValue 返回枚举项的值
func (t *Enum) ItemValue(name string) (any, bool) {
	it, ok := t.items[name]
	if !ok {
		return nil, false
	}
	return it.Meta().Default(), true
}

func (t *Enum) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	return t.elem.Valid(name, v)
}

func (t *Enum) Serialize(v any) (any, error) {
	return t.elem.Serialize(v)
}

func (t *Enum) Deserialize(v any) (any, error) {
	return t.elem.Deserialize(v)
}

func (t *Enum) Clone() Type {
	c := &Enum{
		Base:  t.Base.clone(),
		name:  t.name,
		names: append([]string(nil), t.names...),
		items: make(map[string]Type, len(t.items)),
		elem:  t.elem.Clone(),
	}
	for k, v := range t.items {
		c.items[k] = v.Clone()
	}
	return c
}
