package storage

// Dialect SQL方言接口（对外导出）
// 封装不同数据库的SQL语法差异；占位符由 sqlx.Rebind 按驱动名转换
type Dialect interface {
	// Name 返回方言名称（如 "sqlite", "mysql", "postgres"）
	Name() string

	// DriverName 返回 database/sql 驱动名
	DriverName() string

	// CreateTableSQL 返回创建表的DDL语句
	// 输入为SQLite语法，各方言做必要替换
	CreateTableSQL(schema string) string

	// CreateIndexSQL 返回创建索引的DDL语句
	CreateIndexSQL(table, index, column string) string

	// ConfigureDB 配置数据库连接（如SQLite的PRAGMA）
	// 返回需要执行的SQL语句列表
	ConfigureDB() []string

	// IgnoreSchemaError 判断建表/建索引时的错误是否可以忽略（如索引已存在）
	IgnoreSchemaError(err error) bool
}
