package ddl

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/hatlonely/typedef/log"
)

// ApplyGorm 通过已有的 GORM 连接执行建表语句，方言取自连接
func ApplyGorm(ctx context.Context, db *gorm.DB, tables ...*TableModel) error {
	d, err := gormDialect(db)
	if err != nil {
		return err
	}
	for _, t := range tables {
		stmts, err := t.Statements(d)
		if err != nil {
			return err
		}
		for _, s := range stmts {
			if err := db.WithContext(ctx).Exec(s).Error; err != nil {
				if isExists(err) {
					continue
				}
				return errors.Wrapf(err, "failed to apply ddl on table %s", t.Table)
			}
		}
		log.Default().InfoContext(ctx, "table applied", "table", t.Table, "dialect", string(d), "statements", len(stmts))
	}
	return nil
}

// Verify 用 GORM 的 Migrator 检查表、列和索引都已存在
func Verify(db *gorm.DB, tables ...*TableModel) error {
	m := db.Migrator()
	for _, t := range tables {
		if !m.HasTable(t.Table) {
			return errors.Errorf("table %s not found", t.Table)
		}
		for _, f := range t.Fields {
			if !m.HasColumn(t.Table, f.Name) {
				return errors.Errorf("column %s.%s not found", t.Table, f.Name)
			}
		}
		for _, idx := range t.Indexes {
			if !m.HasIndex(t.Table, idx.Name) {
				return errors.Errorf("index %s on %s not found", idx.Name, t.Table)
			}
		}
	}
	return nil
}

func gormDialect(db *gorm.DB) (Dialect, error) {
	switch name := db.Dialector.Name(); name {
	case "sqlite":
		return DialectSQLite, nil
	case "mysql":
		return DialectMySQL, nil
	default:
		return "", errors.Errorf("unsupported gorm dialector: %s", name)
	}
}
