package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDialect_CreateTableSQL(t *testing.T) {
	d := NewPostgresDialect()
	ddl := d.CreateTableSQL("CREATE TABLE t (\n\tflag INTEGER NOT NULL DEFAULT 0,\n\ttasks INTEGER NOT NULL,\n\tcreate_time DATETIME NOT NULL\n);")

	assert.Contains(t, ddl, "flag BOOLEAN NOT NULL DEFAULT FALSE")
	assert.Contains(t, ddl, "tasks INTEGER NOT NULL")
	assert.Contains(t, ddl, "create_time TIMESTAMP NOT NULL")
	assert.NotContains(t, ddl, "DATETIME")
}

func TestPostgresDialect_Basics(t *testing.T) {
	d := NewPostgresDialect()

	assert.Equal(t, "postgres", d.Name())
	assert.Equal(t, "postgres", d.DriverName())
	assert.Equal(t, "CREATE INDEX IF NOT EXISTS idx ON t(c)", d.CreateIndexSQL("t", "idx", "c"))
	assert.False(t, d.IgnoreSchemaError(errors.New("any")))
}
