package ddl

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/field"
	"github.com/hatlonely/typedef/model"
)

// TableModel 表模型定义，由 Model 的列信息生成
type TableModel struct {
	Table      string // 表名
	Fields     []FieldDefinition
	PrimaryKey []string          // 主键字段名列表，支持复合主键
	Indexes    []IndexDefinition // 普通索引和唯一索引
}

// FieldDefinition 字段定义
type FieldDefinition struct {
	Name     string
	Type     string // 列类型，取自 ColumnInfo.Type，例如 Integer、String、DECIMAL
	Required bool
	Default  any
	Size     int    // 字段长度，如 VARCHAR(255)
	Places   *int32 // 小数位数，只对 DECIMAL 有效
	Foreign  string // 外键，格式为 table.column
}

// IndexDefinition 索引定义
type IndexDefinition struct {
	Name   string
	Fields []string
	Unique bool
	Kind   model.IndexKind
}

// FromModel 从模型的列信息构建 TableModel
//
// 列上的 index/unique 标记生成 idx_/uk_ 前缀的单列索引，模型上的索引一一对应
func FromModel(m *model.Model) (*TableModel, error) {
	if m == nil {
		return nil, errors.New("model is nil")
	}
	cols := m.Columns()
	if len(cols) == 0 {
		return nil, errors.Errorf("model %s has no column", m.Name())
	}

	t := &TableModel{Table: m.Name()}
	for _, c := range cols {
		typ, _ := m.Type(c.Name)
		def := FieldDefinition{
			Name:     c.Name,
			Type:     c.Type,
			Required: !c.Nullable,
			Foreign:  c.Foreign,
		}
		if c.Length != nil {
			def.Size = *c.Length
		}
		if d, ok := typ.(*field.Decimal); ok {
			if p, ok := d.Places(); ok {
				def.Places = &p
			}
		}
		if v := typ.Meta().Default(); isScalar(v) {
			def.Default = v
		}
		if def.Foreign != "" {
			if _, _, err := splitForeign(def.Foreign); err != nil {
				return nil, errors.WithMessagef(err, "column %s.%s", m.Name(), c.Name)
			}
		}
		t.Fields = append(t.Fields, def)

		if c.PrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
		if c.Unique {
			t.Indexes = append(t.Indexes, IndexDefinition{Name: "uk_" + c.Name, Fields: []string{c.Name}, Unique: true, Kind: model.IndexBTree})
		} else if c.Index {
			t.Indexes = append(t.Indexes, IndexDefinition{Name: "idx_" + c.Name, Fields: []string{c.Name}, Kind: model.IndexBTree})
		}
	}
	for _, idx := range m.Indexes() {
		t.Indexes = append(t.Indexes, IndexDefinition{Name: idx.Name, Fields: idx.Columns, Kind: idx.Kind})
	}
	return t, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func splitForeign(ref string) (string, string, error) {
	parts := strings.Split(ref, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("foreign key %q should be table.column", ref)
	}
	return parts[0], parts[1], nil
}
