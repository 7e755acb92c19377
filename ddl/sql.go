package ddl

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/log"
	"github.com/hatlonely/typedef/model"
)

// Dialect 目标数据库
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite3"
)

func (d Dialect) check() error {
	switch d {
	case DialectMySQL, DialectSQLite:
		return nil
	default:
		return errors.Errorf("unsupported dialect: %s", d)
	}
}

// CreateTableSQL 构建创建表的 SQL 语句
func (t *TableModel) CreateTableSQL(d Dialect) (string, error) {
	if err := d.check(); err != nil {
		return "", err
	}
	var columns []string

	// 构建字段定义
	for _, f := range t.Fields {
		columns = append(columns, columnDefinition(d, f))
	}

	// 添加主键定义
	if len(t.PrimaryKey) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	}

	// 外键
	for _, f := range t.Fields {
		if f.Foreign == "" {
			continue
		}
		table, column, err := splitForeign(f.Foreign)
		if err != nil {
			return "", errors.WithMessagef(err, "column %s.%s", t.Table, f.Name)
		}
		columns = append(columns, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", f.Name, table, column))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", t.Table, strings.Join(columns, ",\n  ")), nil
}

// columnDefinition 构建单个字段定义
func columnDefinition(d Dialect, f FieldDefinition) string {
	parts := []string{f.Name, sqlType(d, f)}

	if f.Required {
		parts = append(parts, "NOT NULL")
	}
	if f.Default != nil {
		parts = append(parts, "DEFAULT "+formatDefaultValue(f.Default))
	}
	return strings.Join(parts, " ")
}

// sqlType 将列类型映射为 SQL 类型，不认识的类型原样输出
func sqlType(d Dialect, f FieldDefinition) string {
	size := func(def int) int {
		if f.Size > 0 {
			return f.Size
		}
		return def
	}

	if d == DialectSQLite {
		switch f.Type {
		case "Integer", "BigInteger", "SmallInteger", "Boolean":
			return "INTEGER"
		case "Float":
			return "REAL"
		case "DECIMAL":
			return "NUMERIC"
		case "String", "CHAR", "Text", "JSON", "TIME", "Date", "DateTime":
			return "TEXT"
		case "Binary", "LargeBinary":
			return "BLOB"
		}
		return f.Type
	}

	switch f.Type {
	case "Integer":
		return "INT"
	case "BigInteger":
		return "BIGINT"
	case "SmallInteger":
		return "SMALLINT"
	case "Boolean":
		return "BOOLEAN"
	case "Float":
		return "DOUBLE"
	case "DECIMAL":
		if f.Places != nil {
			return fmt.Sprintf("DECIMAL(%d, %d)", size(20), *f.Places)
		}
		return "DECIMAL"
	case "String":
		return fmt.Sprintf("VARCHAR(%d)", size(255))
	case "CHAR":
		return fmt.Sprintf("CHAR(%d)", size(1))
	case "Text":
		return "TEXT"
	case "JSON":
		return "JSON"
	case "Binary":
		return fmt.Sprintf("VARBINARY(%d)", size(255))
	case "LargeBinary":
		return "LONGBLOB"
	case "TIME":
		return "TIME"
	case "Date":
		return "DATE"
	case "DateTime":
		return "DATETIME"
	}
	return f.Type
}

// formatDefaultValue 格式化默认值
func formatDefaultValue(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "''"))
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CreateIndexSQL 构建创建索引的 SQL 语句，sqlite 不支持 hash 索引
func (t *TableModel) CreateIndexSQL(d Dialect) ([]string, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		indexType := "INDEX"
		if idx.Unique {
			indexType = "UNIQUE INDEX"
		}
		cols := strings.Join(idx.Fields, ", ")

		// MySQL 不支持 IF NOT EXISTS 语法用于索引
		if d == DialectMySQL {
			s := fmt.Sprintf("CREATE %s %s ON %s (%s)", indexType, idx.Name, t.Table, cols)
			if idx.Kind == model.IndexHash {
				s += " USING HASH"
			}
			out = append(out, s)
			continue
		}
		if idx.Kind == model.IndexHash {
			return nil, errors.Errorf("sqlite does not support hash index %s on %s", idx.Name, t.Table)
		}
		out = append(out, fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", indexType, idx.Name, t.Table, cols))
	}
	return out, nil
}

// Statements 建表语句在前，索引语句在后
func (t *TableModel) Statements(d Dialect) ([]string, error) {
	table, err := t.CreateTableSQL(d)
	if err != nil {
		return nil, err
	}
	indexes, err := t.CreateIndexSQL(d)
	if err != nil {
		return nil, err
	}
	return append([]string{table}, indexes...), nil
}

// Apply 依次执行每张表的语句，已存在的表和索引被忽略
func Apply(ctx context.Context, db *sql.DB, d Dialect, tables ...*TableModel) error {
	for _, t := range tables {
		stmts, err := t.Statements(d)
		if err != nil {
			return err
		}
		for _, s := range stmts {
			if _, err := db.ExecContext(ctx, s); err != nil {
				if isExists(err) {
					log.Default().DebugContext(ctx, "ddl object exists", "table", t.Table, "error", err)
					continue
				}
				return errors.Wrapf(err, "failed to apply ddl on table %s", t.Table)
			}
		}
		log.Default().InfoContext(ctx, "table applied", "table", t.Table, "dialect", string(d), "statements", len(stmts))
	}
	return nil
}

func isExists(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "already exist") ||
		strings.Contains(msg, "Duplicate key name")
}
