package mysql

import (
	"errors"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/LENAX/task-order/pkg/storage"
)

func TestMySQLDialect_CreateTableSQL(t *testing.T) {
	d := NewMySQLDialect()
	ddl := d.CreateTableSQL("CREATE TABLE IF NOT EXISTS t (\n\tflag INTEGER NOT NULL DEFAULT 0,\n\tcreate_time DATETIME NOT NULL\n);")

	assert.Contains(t, ddl, "flag TINYINT(1) NOT NULL DEFAULT 0")
	assert.Contains(t, ddl, "create_time DATETIME(6) NOT NULL")
	assert.Contains(t, ddl, "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;")
	assert.Equal(t, "mysql", d.DriverName())
}

func TestMySQLDialect_IgnoreSchemaError(t *testing.T) {
	d := NewMySQLDialect()

	assert.True(t, d.IgnoreSchemaError(&driver.MySQLError{Number: erDupKeyName, Message: "Duplicate key name"}))
	assert.False(t, d.IgnoreSchemaError(&driver.MySQLError{Number: 1045, Message: "Access denied"}))
	assert.False(t, d.IgnoreSchemaError(errors.New("other")))
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open("not a dsn", storageOptions())
	assert.Error(t, err)
}

func storageOptions() storage.PoolOptions {
	return storage.PoolOptions{MaxOpenConns: 1}
}
