package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")
	configContent := `
task-order:
  general:
    instance_name: "order-test"
    log_level: "debug"
  server:
    port: 9090
    request_timeout: "2s"
  limits:
    max_tasks: 50
    verify: true
  storage:
    database:
      type: "sqlite"
      dsn: ":memory:"
    cache:
      enabled: false
      default_ttl: "10m"
    retention:
      enabled: true
      cron: "@every 30m"
      max_age: "24h"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "order-test", cfg.TaskOrder.General.InstanceName)
	assert.Equal(t, "debug", cfg.TaskOrder.General.LogLevel)
	assert.Equal(t, 9090, cfg.TaskOrder.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.TaskOrder.Server.RequestTimeout)
	assert.Equal(t, 50, cfg.TaskOrder.Limits.MaxTasks)
	assert.True(t, cfg.TaskOrder.Limits.Verify)
	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, "sqlite", cfg.GetDatabaseType())
	assert.False(t, cfg.TaskOrder.Storage.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.TaskOrder.Storage.Cache.DefaultTTL)
	assert.Equal(t, 24*time.Hour, cfg.TaskOrder.Storage.Retention.MaxAge)

	// 未出现在文件中的字段应用默认值
	assert.Equal(t, "dev", cfg.TaskOrder.General.Env)
	assert.Equal(t, DefaultMaxEdges, cfg.TaskOrder.Limits.MaxEdges)
	assert.True(t, cfg.TaskOrder.Events.Enabled)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "task-order", cfg.TaskOrder.General.InstanceName)
	assert.Equal(t, DefaultMaxTasks, cfg.TaskOrder.Limits.MaxTasks)
	assert.Equal(t, 8080, cfg.TaskOrder.Server.Port)
	assert.False(t, cfg.StorageEnabled())
	assert.True(t, cfg.TaskOrder.Storage.Cache.Enabled)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("task-order: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"defaults", func(cfg *Config) {}, false},
		{"bad log level", func(cfg *Config) { cfg.TaskOrder.General.LogLevel = "trace" }, true},
		{"bad port", func(cfg *Config) { cfg.TaskOrder.Server.Port = 70000 }, true},
		{"bad database type", func(cfg *Config) {
			cfg.TaskOrder.Storage.Database.Type = "oracle"
			cfg.TaskOrder.Storage.Database.DSN = "x"
		}, true},
		{"missing dsn", func(cfg *Config) { cfg.TaskOrder.Storage.Database.Type = "sqlite" }, true},
		{"bad retention cron", func(cfg *Config) {
			cfg.TaskOrder.Storage.Retention.Enabled = true
			cfg.TaskOrder.Storage.Retention.Cron = "not a cron"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, Validate(nil))
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "task-order.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.StorageEnabled())
	assert.Equal(t, "sqlite", cfg.GetDatabaseType())
	assert.Equal(t, 5*time.Second, cfg.TaskOrder.Server.RequestTimeout)
	assert.Equal(t, 168*time.Hour, cfg.TaskOrder.Storage.Retention.MaxAge)
	assert.Equal(t, int64(64), cfg.TaskOrder.Events.BufferSize)
}
