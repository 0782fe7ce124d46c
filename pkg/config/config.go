package config

import (
	"time"
)

// Config 服务配置（对外导出）
type Config struct {
	TaskOrder struct {
		General struct {
			InstanceName string `yaml:"instance_name"`
			LogLevel     string `yaml:"log_level"`
			Env          string `yaml:"env"`
		} `yaml:"general"`
		Server struct {
			Host           string        `yaml:"host"`
			Port           int           `yaml:"port"`
			ReadTimeout    time.Duration `yaml:"read_timeout"`
			WriteTimeout   time.Duration `yaml:"write_timeout"`
			RequestTimeout time.Duration `yaml:"request_timeout"`
		} `yaml:"server"`
		Limits struct {
			MaxTasks int  `yaml:"max_tasks"`
			MaxEdges int  `yaml:"max_edges"`
			Verify   bool `yaml:"verify"`
		} `yaml:"limits"`
		Storage struct {
			Database struct {
				Type            string        `yaml:"type"`
				DSN             string        `yaml:"dsn"`
				MaxOpenConns    int           `yaml:"max_open_conns"`
				MaxIdleConns    int           `yaml:"max_idle_conns"`
				ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
			} `yaml:"database"`
			Cache struct {
				Enabled       bool          `yaml:"enabled"`
				DefaultTTL    time.Duration `yaml:"default_ttl"`
				CleanInterval time.Duration `yaml:"clean_interval"`
			} `yaml:"cache"`
			Retention struct {
				Enabled bool          `yaml:"enabled"`
				Cron    string        `yaml:"cron"`
				MaxAge  time.Duration `yaml:"max_age"`
			} `yaml:"retention"`
		} `yaml:"storage"`
		Events struct {
			Enabled    bool  `yaml:"enabled"`
			BufferSize int64 `yaml:"buffer_size"`
		} `yaml:"events"`
	} `yaml:"task-order"`
}

// 默认值
const (
	DefaultMaxTasks = 100
	DefaultMaxEdges = 10000
)

// StorageEnabled 是否配置了历史记录存储
func (c *Config) StorageEnabled() bool {
	return c.TaskOrder.Storage.Database.Type != "" && c.TaskOrder.Storage.Database.DSN != ""
}

// GetDatabaseType 获取数据库类型
func (c *Config) GetDatabaseType() string {
	return c.TaskOrder.Storage.Database.Type
}

// GetDatabaseDSN 获取数据库DSN
func (c *Config) GetDatabaseDSN() string {
	return c.TaskOrder.Storage.Database.DSN
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() {
	// General默认值
	if c.TaskOrder.General.InstanceName == "" {
		c.TaskOrder.General.InstanceName = "task-order"
	}
	if c.TaskOrder.General.LogLevel == "" {
		c.TaskOrder.General.LogLevel = "info"
	}
	if c.TaskOrder.General.Env == "" {
		c.TaskOrder.General.Env = "dev"
	}

	// Server默认值
	if c.TaskOrder.Server.Host == "" {
		c.TaskOrder.Server.Host = "0.0.0.0"
	}
	if c.TaskOrder.Server.Port <= 0 {
		c.TaskOrder.Server.Port = 8080
	}
	if c.TaskOrder.Server.ReadTimeout <= 0 {
		c.TaskOrder.Server.ReadTimeout = 30 * time.Second
	}
	if c.TaskOrder.Server.WriteTimeout <= 0 {
		c.TaskOrder.Server.WriteTimeout = 30 * time.Second
	}
	if c.TaskOrder.Server.RequestTimeout <= 0 {
		c.TaskOrder.Server.RequestTimeout = 5 * time.Second
	}

	// Limits默认值
	if c.TaskOrder.Limits.MaxTasks <= 0 {
		c.TaskOrder.Limits.MaxTasks = DefaultMaxTasks
	}
	if c.TaskOrder.Limits.MaxEdges <= 0 {
		c.TaskOrder.Limits.MaxEdges = DefaultMaxEdges
	}

	// Database默认值
	if c.TaskOrder.Storage.Database.MaxOpenConns <= 0 {
		c.TaskOrder.Storage.Database.MaxOpenConns = 10
	}
	if c.TaskOrder.Storage.Database.MaxIdleConns <= 0 {
		c.TaskOrder.Storage.Database.MaxIdleConns = 5
	}
	if c.TaskOrder.Storage.Database.ConnMaxLifetime <= 0 {
		c.TaskOrder.Storage.Database.ConnMaxLifetime = 2 * time.Hour
	}

	// Cache默认值
	if c.TaskOrder.Storage.Cache.DefaultTTL <= 0 {
		c.TaskOrder.Storage.Cache.DefaultTTL = 1 * time.Hour
	}
	if c.TaskOrder.Storage.Cache.CleanInterval <= 0 {
		c.TaskOrder.Storage.Cache.CleanInterval = 30 * time.Minute
	}

	// Retention默认值
	if c.TaskOrder.Storage.Retention.Cron == "" {
		c.TaskOrder.Storage.Retention.Cron = "@every 1h"
	}
	if c.TaskOrder.Storage.Retention.MaxAge <= 0 {
		c.TaskOrder.Storage.Retention.MaxAge = 7 * 24 * time.Hour
	}

	// Events默认值
	if c.TaskOrder.Events.BufferSize <= 0 {
		c.TaskOrder.Events.BufferSize = 64
	}
}

// Default 返回应用了默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.TaskOrder.Storage.Cache.Enabled = true
	cfg.TaskOrder.Events.Enabled = true
	cfg.ApplyDefaults()
	return cfg
}
