package model

import (
	"fmt"
	"strings"
)

// IndexKind 索引类型
type IndexKind string

const (
	IndexBTree IndexKind = "btree"
	IndexHash  IndexKind = "hash"
)

// Storage 模型映射的存储类型，决定支持哪些索引类型
type Storage string

const (
	StorageMySQL  Storage = "mysql"
	StorageSQLite Storage = "sqlite"
)

var supportedIndexKinds = map[Storage][]IndexKind{
	StorageMySQL:  {IndexBTree, IndexHash},
	StorageSQLite: {IndexBTree},
}

func (s Storage) Supports(kind IndexKind) bool {
	for _, k := range supportedIndexKinds[s] {
		if k == kind {
			return true
		}
	}
	return false
}

func (s Storage) IndexKinds() []IndexKind {
	return append([]IndexKind(nil), supportedIndexKinds[s]...)
}

// IndexInfo 多列索引定义
type IndexInfo struct {
	Name    string    `json:"name" yaml:"name" toml:"name"`
	Columns []string  `json:"columns" yaml:"columns" toml:"columns"`
	Kind    IndexKind `json:"kind" yaml:"kind" toml:"kind"`
}

type indexOptions struct {
	name   string
	kind   IndexKind
	prefix string
}

type IndexOption func(*indexOptions)

func WithIndexName(name string) IndexOption {
	return func(o *indexOptions) { o.name = name }
}

func WithIndexKind(kind IndexKind) IndexOption {
	return func(o *indexOptions) { o.kind = kind }
}

// WithIndexPrefix 索引名加上 prefix_ 前缀
func WithIndexPrefix(prefix string) IndexOption {
	return func(o *indexOptions) { o.prefix = prefix }
}

// NewIndex 默认名称为 ind_<col1>_<col2>，默认类型为 btree
func NewIndex(columns []string, opts ...IndexOption) *IndexInfo {
	o := &indexOptions{kind: IndexBTree}
	for _, opt := range opts {
		opt(o)
	}
	name := o.name
	if name == "" {
		name = "ind_" + strings.Join(columns, "_")
	}
	if o.prefix != "" {
		name = o.prefix + "_" + name
	}
	return &IndexInfo{Name: name, Columns: append([]string(nil), columns...), Kind: o.kind}
}

func (i *IndexInfo) clone() *IndexInfo {
	return &IndexInfo{Name: i.Name, Columns: append([]string(nil), i.Columns...), Kind: i.Kind}
}

func (i *IndexInfo) sameColumns(columns []string) bool {
	if len(i.Columns) != len(columns) {
		return false
	}
	for n := range columns {
		if i.Columns[n] != columns[n] {
			return false
		}
	}
	return true
}

func (i *IndexInfo) String() string {
	return fmt.Sprintf("<IndexInfo columns: (%s), name: %s, kind: %s>", strings.Join(i.Columns, ","), i.Name, i.Kind)
}
