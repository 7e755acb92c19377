package model

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/field"
	"github.com/hatlonely/typedef/log"
)

// ErrModelValidation 模型定义阶段的索引或列配置错误
var ErrModelValidation = errors.New("model validation failed")

// Def 模型中的一个字段定义
type Def struct {
	Name string
	Type field.Type
}

// Model 具名、有序的字段集合
//
// Model 发布后只读，所有变换都返回新的、互相独立的 Model，因此可以在多个 goroutine 间共享
type Model struct {
	name        string
	description string
	storage     Storage
	fields      *field.Dict
	indexes     []*IndexInfo
}

type options struct {
	description string
	storage     Storage
	indexes     []*IndexInfo
}

type Option func(*options)

func WithDescription(desc string) Option {
	return func(o *options) { o.description = desc }
}

func WithStorage(s Storage) Option {
	return func(o *options) { o.storage = s }
}

func WithIndexes(indexes ...*IndexInfo) Option {
	return func(o *options) { o.indexes = append(o.indexes, indexes...) }
}

func New(name string, defs []Def, opts ...Option) (*Model, error) {
	if name == "" {
		return nil, errors.Wrap(ErrModelValidation, "model name is empty")
	}
	o := &options{storage: StorageMySQL}
	for _, opt := range opts {
		opt(o)
	}
	if _, ok := supportedIndexKinds[o.storage]; !ok {
		return nil, errors.Wrapf(ErrModelValidation, "model %s: unknown storage %q", name, o.storage)
	}

	entries := make([]field.Entry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, field.Entry{Name: d.Name, Type: d.Type})
	}
	fields, err := field.NewDict(entries, field.Description(o.description))
	if err != nil {
		return nil, errors.Wrapf(ErrModelValidation, "model %s: %v", name, err)
	}

	m := &Model{name: name, description: o.description, storage: o.storage, fields: fields}
	if len(o.indexes) > 0 {
		if m, err = m.AddIndexes(o.indexes...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew 定义失败时 panic，用于包级别的模型声明
func MustNew(name string, defs []Def, opts ...Option) *Model {
	m, err := New(name, defs, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Description() string {
	return m.description
}

func (m *Model) Storage() Storage {
	return m.storage
}

func (m *Model) Names() []string {
	return m.fields.Names()
}

func (m *Model) Len() int {
	return m.fields.Len()
}

// Type 返回字段类型的副本
func (m *Model) Type(name string) (field.Type, bool) {
	return m.fields.Get(name)
}

// Fields 返回字段集合的副本
func (m *Model) Fields() *field.Dict {
	return m.fields.Clone().(*field.Dict)
}

// Columns 返回带列信息的字段，列名在副本上赋值
func (m *Model) Columns() []field.ColumnInfo {
	var cols []field.ColumnInfo
	for _, e := range m.fields.Entries() {
		col, ok := e.Type.Meta().Column()
		if !ok {
			continue
		}
		col.Name = e.Name
		cols = append(cols, col)
	}
	return cols
}

func (m *Model) column(name string) (field.ColumnInfo, bool) {
	for _, c := range m.Columns() {
		if c.Name == name {
			return c, true
		}
	}
	return field.ColumnInfo{}, false
}

func (m *Model) Indexes() []*IndexInfo {
	out := make([]*IndexInfo, len(m.indexes))
	for i, idx := range m.indexes {
		out[i] = idx.clone()
	}
	return out
}

func (m *Model) clone() *Model {
	return &Model{
		name:        m.name,
		description: m.description,
		storage:     m.storage,
		fields:      m.Fields(),
		indexes:     m.Indexes(),
	}
}

// derive 用新的字段列表生成模型，引用了不存在列的索引被丢弃
func (m *Model) derive(entries []field.Entry) (*Model, error) {
	fields, err := field.NewDict(entries, field.Description(m.description))
	if err != nil {
		return nil, errors.Wrapf(ErrModelValidation, "model %s: %v", m.name, err)
	}
	c := &Model{name: m.name, description: m.description, storage: m.storage, fields: fields}
	for _, idx := range m.indexes {
		keep := true
		for _, col := range idx.Columns {
			if _, ok := c.column(col); !ok {
				keep = false
				break
			}
		}
		if keep {
			c.indexes = append(c.indexes, idx.clone())
		} else {
			log.Default().Debug("drop index on removed column", "model", m.name, "index", idx.Name)
		}
	}
	return c, nil
}

func (m *Model) checkNames(names []string) error {
	for _, n := range names {
		if _, ok := m.fields.Get(n); !ok {
			return errors.Wrapf(ErrModelValidation, "model %s has no field %q", m.name, n)
		}
	}
	return nil
}

// Rename 返回换了名字的副本
func (m *Model) Rename(name string) *Model {
	c := m.clone()
	c.name = name
	return c
}

// Extend 增加字段，同名字段会被替换
func (m *Model) Extend(name string, t field.Type) (*Model, error) {
	if name == "" || t == nil {
		return nil, errors.Wrapf(ErrModelValidation, "model %s: extend needs a name and a type", m.name)
	}
	return m.derive(merge(m.fields.Entries(), []field.Entry{{Name: name, Type: t}}))
}

// ExtendModel 合并 other 的字段，合并进来的字段去掉列信息
func (m *Model) ExtendModel(other *Model) *Model {
	var extra []field.Entry
	for _, e := range other.fields.Entries() {
		extra = append(extra, field.Entry{Name: e.Name, Type: field.WithoutColumn(e.Type)})
	}
	c, _ := m.derive(merge(m.fields.Entries(), extra))
	return c
}

// ExtendToDBModel 合并 other 的字段并保留列信息
func (m *Model) ExtendToDBModel(other *Model) *Model {
	c, _ := m.derive(merge(m.fields.Entries(), other.fields.Entries()))
	return c
}

func merge(base, extra []field.Entry) []field.Entry {
	out := append([]field.Entry(nil), base...)
	for _, e := range extra {
		replaced := false
		for i := range out {
			if out[i].Name == e.Name {
				out[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) Exclude(names ...string) (*Model, error) {
	if err := m.checkNames(names); err != nil {
		return nil, err
	}
	skip := toSet(names)
	var entries []field.Entry
	for _, e := range m.fields.Entries() {
		if _, ok := skip[e.Name]; !ok {
			entries = append(entries, e)
		}
	}
	return m.derive(entries)
}

// ExcludePrimary 去掉主键字段，常用于生成创建接口的参数
func (m *Model) ExcludePrimary() *Model {
	var entries []field.Entry
	for _, e := range m.fields.Entries() {
		if col, ok := e.Type.Meta().Column(); ok && col.PrimaryKey {
			continue
		}
		entries = append(entries, e)
	}
	c, _ := m.derive(entries)
	return c
}

// Choose 只保留指定字段，顺序与参数一致
func (m *Model) Choose(names ...string) (*Model, error) {
	if err := m.checkNames(names); err != nil {
		return nil, err
	}
	entries := make([]field.Entry, 0, len(names))
	for _, n := range names {
		t, _ := m.fields.Get(n)
		entries = append(entries, field.Entry{Name: n, Type: t})
	}
	return m.derive(entries)
}

// SetRequired 修改指定字段的必填属性，不指定字段时作用于全部字段
func (m *Model) SetRequired(required bool, names ...string) (*Model, error) {
	if err := m.checkNames(names); err != nil {
		return nil, err
	}
	target := toSet(names)
	entries := m.fields.Entries()
	for i, e := range entries {
		if _, ok := target[e.Name]; ok || len(names) == 0 {
			entries[i].Type = field.WithRequired(e.Type, required)
		}
	}
	return m.derive(entries)
}

// OnlyRequired 指定字段必填，其余字段可选
func (m *Model) OnlyRequired(names ...string) (*Model, error) {
	if err := m.checkNames(names); err != nil {
		return nil, err
	}
	target := toSet(names)
	entries := m.fields.Entries()
	for i, e := range entries {
		_, ok := target[e.Name]
		entries[i].Type = field.WithRequired(e.Type, ok)
	}
	return m.derive(entries)
}

func (m *Model) CancelRequired(names ...string) (*Model, error) {
	return m.SetRequired(false, names...)
}

// AddIndexes 校验并合并索引：同列索引新的覆盖旧的，与列上 index 标记重复的单列索引被忽略
func (m *Model) AddIndexes(indexes ...*IndexInfo) (*Model, error) {
	cols := m.Columns()
	if len(cols) == 0 {
		return nil, errors.Wrapf(ErrModelValidation, "model %s has no column, shouldn't add indexes for it", m.name)
	}
	for _, idx := range indexes {
		if idx == nil || len(idx.Columns) == 0 {
			return nil, errors.Wrapf(ErrModelValidation, "model %s: index without any column", m.name)
		}
		if !m.storage.Supports(idx.Kind) {
			return nil, errors.Wrapf(ErrModelValidation, "model %s: %s does not support index kind %q, choose from %v",
				m.name, m.storage, idx.Kind, m.storage.IndexKinds())
		}
		for _, c := range idx.Columns {
			if _, ok := m.column(c); !ok {
				return nil, errors.Wrapf(ErrModelValidation, "model %s: index %s uses column %q which is not defined", m.name, idx.Name, c)
			}
		}
	}

	fresh := make([]*IndexInfo, 0, len(indexes))
	for i, idx := range indexes {
		overridden := false
		for _, later := range indexes[i+1:] {
			if later.sameColumns(idx.Columns) {
				overridden = true
				log.Default().Debug("index replaced", "model", m.name, "old", idx.Name, "new", later.Name)
				break
			}
		}
		if !overridden {
			fresh = append(fresh, idx)
		}
	}

	merged := make([]*IndexInfo, 0, len(fresh)+len(m.indexes))
	for _, idx := range fresh {
		merged = append(merged, idx.clone())
	}
	for _, old := range m.indexes {
		replaced := false
		for _, idx := range fresh {
			if idx.sameColumns(old.Columns) {
				replaced = true
				log.Default().Debug("index replaced", "model", m.name, "old", old.Name, "new", idx.Name)
				break
			}
		}
		if !replaced {
			merged = append(merged, old.clone())
		}
	}

	c := m.clone()
	c.indexes = c.indexes[:0]
	for _, idx := range merged {
		if len(idx.Columns) == 1 {
			if col, _ := m.column(idx.Columns[0]); col.Index {
				continue
			}
		}
		c.indexes = append(c.indexes, idx)
	}
	return c, nil
}

// AsArgs 每个字段对应一个参数引用，path 为嵌套参数的路径，例如 body.user
func (m *Model) AsArgs(path string) ([]*expr.Arg, error) {
	var parent *expr.Arg
	if path != "" {
		p, err := expr.ParseArg(path)
		if err != nil {
			return nil, err
		}
		parent = p
	}
	names := m.fields.Names()
	out := make([]*expr.Arg, 0, len(names))
	for _, n := range names {
		if parent == nil {
			out = append(out, expr.NewArg(n))
		} else {
			out = append(out, parent.Attr(n))
		}
	}
	return out, nil
}

func (m *Model) Valid(v any) error {
	return m.fields.Valid(m.name, v)
}

func (m *Model) Check(v any) error {
	return m.fields.Check(v)
}

func (m *Model) Serialize(v any) (any, error) {
	return m.fields.Serialize(v)
}

func (m *Model) Deserialize(v any) (any, error) {
	return m.fields.Deserialize(v)
}

func (m *Model) GenInvalid() any {
	return m.fields.GenInvalid()
}

func toSet(names []string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}
