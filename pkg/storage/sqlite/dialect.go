package sqlite

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/LENAX/task-order/pkg/storage"
)

// SQLiteDialect SQLite方言实现（对外导出）
type SQLiteDialect struct{}

// NewSQLiteDialect 创建SQLite方言实例
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

// Name 返回方言名称
func (d *SQLiteDialect) Name() string {
	return "sqlite"
}

// DriverName 返回驱动名
func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// CreateTableSQL 返回创建表的DDL（SQLite原样返回）
func (d *SQLiteDialect) CreateTableSQL(schema string) string {
	return schema
}

// CreateIndexSQL 返回创建索引的DDL
func (d *SQLiteDialect) CreateIndexSQL(table, index, column string) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", index, table, column)
}

// ConfigureDB 返回SQLite配置SQL
func (d *SQLiteDialect) ConfigureDB() []string {
	return []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=30000;",
		"PRAGMA synchronous=NORMAL;",
	}
}

// IgnoreSchemaError SQLite的DDL均带 IF NOT EXISTS，不忽略任何错误
func (d *SQLiteDialect) IgnoreSchemaError(err error) bool {
	return false
}

// Open 通过DSN打开SQLite排序历史库
func Open(dsn string, opts storage.PoolOptions) (*storage.SQLRepository, error) {
	// 内存库的每个连接都是独立的数据库，只能使用单个常驻连接
	if dsn == ":memory:" {
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
		opts.ConnMaxLifetime = 0
	}
	return storage.Open(NewSQLiteDialect(), dsn, opts)
}

// 确保实现接口
var _ storage.Dialect = (*SQLiteDialect)(nil)
