package field

import "fmt"

// ColumnInfo 字段映射到存储列时的元数据
//
// Type 在读取时从所属字段类型解析，Name 由 Model 在收集列时赋值，二者都只写在副本上
type ColumnInfo struct {
	PrimaryKey bool   `json:"primaryKey,omitempty" yaml:"primaryKey" toml:"primaryKey"`
	Nullable   bool   `json:"nullable,omitempty" yaml:"nullable" toml:"nullable"`
	Index      bool   `json:"index,omitempty" yaml:"index" toml:"index"`
	Unique     bool   `json:"unique,omitempty" yaml:"unique" toml:"unique"`
	Length     *int   `json:"length,omitempty" yaml:"length" toml:"length" validate:"omitempty,gt=0"`
	Foreign    string `json:"foreign,omitempty" yaml:"foreign" toml:"foreign"`
	Type       string `json:"type,omitempty" yaml:"type" toml:"type"`
	Name       string `json:"name,omitempty" yaml:"name" toml:"name"`
}

type ColumnOption func(*ColumnInfo)

func PrimaryKey() ColumnOption {
	return func(c *ColumnInfo) { c.PrimaryKey = true }
}

func Nullable() ColumnOption {
	return func(c *ColumnInfo) { c.Nullable = true }
}

func Indexed() ColumnOption {
	return func(c *ColumnInfo) { c.Index = true }
}

func Unique() ColumnOption {
	return func(c *ColumnInfo) { c.Unique = true }
}

func Length(n int) ColumnOption {
	return func(c *ColumnInfo) { c.Length = &n }
}

// Foreign 外键引用，格式为 table.column
func Foreign(ref string) ColumnOption {
	return func(c *ColumnInfo) { c.Foreign = ref }
}

// StorageType 覆盖从字段类型推导出的存储类型
func StorageType(t string) ColumnOption {
	return func(c *ColumnInfo) { c.Type = t }
}

// Update 用 other 中非零的属性覆盖自身
func (c *ColumnInfo) Update(other ColumnInfo) {
	if other.PrimaryKey {
		c.PrimaryKey = true
	}
	if other.Nullable {
		c.Nullable = true
	}
	if other.Index {
		c.Index = true
	}
	if other.Unique {
		c.Unique = true
	}
	if other.Length != nil {
		n := *other.Length
		c.Length = &n
	}
	if other.Foreign != "" {
		c.Foreign = other.Foreign
	}
	if other.Type != "" {
		c.Type = other.Type
	}
	if other.Name != "" {
		c.Name = other.Name
	}
}

func (c ColumnInfo) clone() ColumnInfo {
	if c.Length != nil {
		n := *c.Length
		c.Length = &n
	}
	return c
}

func (c ColumnInfo) String() string {
	length := "-"
	if c.Length != nil {
		length = fmt.Sprint(*c.Length)
	}
	return fmt.Sprintf("<ColumnInfo name: %s, primary_key: %t, nullable: %t, index: %t, unique: %t, length: %s, foreign: %s, type: %s>",
		c.Name, c.PrimaryKey, c.Nullable, c.Index, c.Unique, length, c.Foreign, c.Type)
}
