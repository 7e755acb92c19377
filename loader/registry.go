package loader

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/field"
)

// ErrUnknownType 文档中的字段类型没有注册构造函数
var ErrUnknownType = errors.New("unknown field type")

// Constructor 根据字段描述构造字段类型
//
// opts 是由描述中的通用属性转换来的配置，复合类型通过 b 构造子类型或引用前面的模型
type Constructor func(b *Builder, spec *FieldSpec, opts []field.Option) (field.Type, error)

var registry sync.Map

func normalize(typeName string) string {
	return strings.ToLower(strings.TrimSpace(typeName))
}

// Register 注册字段类型构造函数，类型名不区分大小写，重复注册返回错误
func Register(typeName string, c Constructor) error {
	name := normalize(typeName)
	if name == "" {
		return errors.New("type name is empty")
	}
	if c == nil {
		return errors.Errorf("constructor for %q is nil", typeName)
	}
	if _, loaded := registry.LoadOrStore(name, c); loaded {
		return errors.Errorf("type %q already registered", typeName)
	}
	return nil
}

func MustRegister(typeName string, c Constructor) {
	if err := Register(typeName, c); err != nil {
		panic(err)
	}
}

func lookup(typeName string) (Constructor, error) {
	v, ok := registry.Load(normalize(typeName))
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "%q", typeName)
	}
	return v.(Constructor), nil
}

// Types 返回所有已注册的类型名，按字典序
func Types() []string {
	var names []string
	registry.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

func scalar[T field.Type](fn func(...field.Option) (T, error)) Constructor {
	return func(_ *Builder, _ *FieldSpec, opts []field.Option) (field.Type, error) {
		return fn(opts...)
	}
}

func newList(b *Builder, spec *FieldSpec, opts []field.Option) (field.Type, error) {
	var elem field.Type
	var err error
	switch {
	case spec.Model != "":
		elem, err = b.modelDict(spec.Model)
	case spec.Elem != nil:
		elem, err = b.Build(spec.Elem)
	default:
		return nil, errors.Errorf("list %s: needs elem or model", spec.Name)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "list %s", spec.Name)
	}
	return field.NewList(elem, opts...)
}

func newDict(b *Builder, spec *FieldSpec, opts []field.Option) (field.Type, error) {
	if spec.Model != "" {
		return b.modelDict(spec.Model, opts...)
	}
	entries := make([]field.Entry, 0, len(spec.Fields))
	for i, fs := range spec.Fields {
		if fs.Name == "" {
			return nil, errors.Errorf("dict %s: fields[%d] has no name", spec.Name, i)
		}
		t, err := b.Build(fs)
		if err != nil {
			return nil, errors.WithMessagef(err, "dict %s", spec.Name)
		}
		entries = append(entries, field.Entry{Name: fs.Name, Type: t})
	}
	return field.NewDict(entries, opts...)
}

func newEnum(b *Builder, spec *FieldSpec, opts []field.Option) (field.Type, error) {
	items := make([]field.EnumItem, 0, len(spec.Items))
	for i, is := range spec.Items {
		if is.Name == "" {
			return nil, errors.Errorf("enum %s: items[%d] has no name", spec.Name, i)
		}
		if is.Default == nil {
			return nil, errors.Errorf("enum %s: item %s has no value", spec.Name, is.Name)
		}
		t, err := b.Build(is)
		if err != nil {
			return nil, errors.WithMessagef(err, "enum %s", spec.Name)
		}
		items = append(items, field.EnumItem{Name: is.Name, Type: t})
	}
	return field.NewEnum(spec.Name, items, opts...)
}

func init() {
	MustRegister("void", scalar(field.NewVoid))
	MustRegister("bool", scalar(field.NewBool))
	MustRegister("boolean", scalar(field.NewBool))
	MustRegister("integer", scalar(field.NewInteger))
	MustRegister("biginteger", scalar(field.NewBigInteger))
	MustRegister("smallinteger", scalar(field.NewSmallInteger))
	MustRegister("float", scalar(field.NewFloat))
	MustRegister("double", scalar(field.NewDouble))
	MustRegister("decimal", scalar(field.NewDecimal))
	MustRegister("string", scalar(field.NewString))
	MustRegister("char", scalar(field.NewChar))
	MustRegister("text", scalar(field.NewText))
	MustRegister("json", scalar(field.NewJSON))
	MustRegister("binary", scalar(field.NewBinary))
	MustRegister("largebinary", scalar(field.NewLargeBinary))
	MustRegister("time", scalar(field.NewTime))
	MustRegister("date", scalar(field.NewDate))
	MustRegister("datetime", scalar(field.NewDateTime))
	MustRegister("list", newList)
	MustRegister("dict", newDict)
	MustRegister("enum", newEnum)
}
