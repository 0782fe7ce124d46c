package mysql

import (
	"errors"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/LENAX/task-order/pkg/storage"
)

// erDupKeyName 索引已存在
const erDupKeyName = 1061

// MySQLDialect MySQL方言实现（对外导出）
type MySQLDialect struct{}

// NewMySQLDialect 创建MySQL方言实例
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

// Name 返回方言名称
func (d *MySQLDialect) Name() string {
	return "mysql"
}

// DriverName 返回驱动名
func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// CreateTableSQL 转换DDL为MySQL兼容格式
func (d *MySQLDialect) CreateTableSQL(schema string) string {
	result := strings.ReplaceAll(schema, "INTEGER NOT NULL DEFAULT 0", "TINYINT(1) NOT NULL DEFAULT 0")
	result = strings.ReplaceAll(result, "create_time DATETIME NOT NULL", "create_time DATETIME(6) NOT NULL")

	// 添加引擎声明
	if !strings.Contains(result, "ENGINE=") {
		result = strings.TrimRight(strings.TrimSpace(result), ";") + " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;"
	}
	return result
}

// CreateIndexSQL MySQL不支持 CREATE INDEX IF NOT EXISTS，重复创建的错误由 IgnoreSchemaError 忽略
func (d *MySQLDialect) CreateIndexSQL(table, index, column string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s(%s)", index, table, column)
}

// ConfigureDB 返回MySQL配置SQL
func (d *MySQLDialect) ConfigureDB() []string {
	return []string{
		"SET SESSION sql_mode='STRICT_TRANS_TABLES,NO_ZERO_IN_DATE,NO_ZERO_DATE,ERROR_FOR_DIVISION_BY_ZERO,NO_ENGINE_SUBSTITUTION';",
	}
}

// IgnoreSchemaError 忽略索引已存在错误
func (d *MySQLDialect) IgnoreSchemaError(err error) bool {
	var mysqlErr *driver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == erDupKeyName
}

// Open 通过DSN打开MySQL排序历史库
// DSN 必须带 parseTime=true 才能把 DATETIME 扫描为 time.Time
func Open(dsn string, opts storage.PoolOptions) (*storage.SQLRepository, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("解析MySQL DSN失败: %w", err)
	}
	cfg.ParseTime = true
	return storage.Open(NewMySQLDialect(), cfg.FormatDSN(), opts)
}

// 确保实现接口
var _ storage.Dialect = (*MySQLDialect)(nil)
