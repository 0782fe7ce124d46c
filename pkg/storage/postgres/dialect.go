package postgres

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/LENAX/task-order/pkg/storage"
)

// PostgresDialect PostgreSQL方言实现（对外导出）
type PostgresDialect struct{}

// NewPostgresDialect 创建PostgreSQL方言实例
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

// Name 返回方言名称
func (d *PostgresDialect) Name() string {
	return "postgres"
}

// DriverName 返回驱动名
// sqlx 根据该名称把 ? 占位符重写为 $1, $2, ...
func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// CreateTableSQL 转换DDL为PostgreSQL兼容格式
func (d *PostgresDialect) CreateTableSQL(schema string) string {
	// 替换DATETIME为TIMESTAMP
	result := strings.ReplaceAll(schema, "DATETIME", "TIMESTAMP")

	// 替换布尔INTEGER为BOOLEAN
	result = strings.ReplaceAll(result, "INTEGER NOT NULL DEFAULT 0", "BOOLEAN NOT NULL DEFAULT FALSE")

	return result
}

// CreateIndexSQL 返回创建索引的DDL
func (d *PostgresDialect) CreateIndexSQL(table, index, column string) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", index, table, column)
}

// ConfigureDB 返回PostgreSQL配置SQL
func (d *PostgresDialect) ConfigureDB() []string {
	return []string{
		"SET timezone = 'UTC';",
	}
}

// IgnoreSchemaError PostgreSQL的DDL均带 IF NOT EXISTS，不忽略任何错误
func (d *PostgresDialect) IgnoreSchemaError(err error) bool {
	return false
}

// Open 通过DSN打开PostgreSQL排序历史库
func Open(dsn string, opts storage.PoolOptions) (*storage.SQLRepository, error) {
	return storage.Open(NewPostgresDialect(), dsn, opts)
}

// 确保实现接口
var _ storage.Dialect = (*PostgresDialect)(nil)
