package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate 校验配置合法性
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("配置不能为空")
	}

	// 校验General
	if cfg.TaskOrder.General.InstanceName == "" {
		return fmt.Errorf("instance_name不能为空")
	}
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.TaskOrder.General.LogLevel] {
		return fmt.Errorf("log_level必须是debug/info/warn/error之一")
	}

	// 校验Server
	if cfg.TaskOrder.Server.Port <= 0 || cfg.TaskOrder.Server.Port > 65535 {
		return fmt.Errorf("server.port必须在1-65535之间")
	}

	// 校验Limits
	if cfg.TaskOrder.Limits.MaxTasks <= 0 {
		return fmt.Errorf("limits.max_tasks必须大于0")
	}
	if cfg.TaskOrder.Limits.MaxEdges < 0 {
		return fmt.Errorf("limits.max_edges不能为负数")
	}

	// 校验Storage.Database（未配置时不记录历史）
	db := cfg.TaskOrder.Storage.Database
	if db.Type != "" {
		validDBTypes := map[string]bool{
			"sqlite":     true,
			"postgres":   true,
			"postgresql": true,
			"mysql":      true,
		}
		if !validDBTypes[db.Type] {
			return fmt.Errorf("database.type必须是sqlite/postgres/mysql之一")
		}
		if db.DSN == "" {
			return fmt.Errorf("database.dsn不能为空")
		}
		if db.MaxIdleConns < 0 {
			return fmt.Errorf("database.max_idle_conns不能为负数")
		}
	}

	// 校验Retention
	if cfg.TaskOrder.Storage.Retention.Enabled {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(cfg.TaskOrder.Storage.Retention.Cron); err != nil {
			return fmt.Errorf("retention.cron无效: %w", err)
		}
	}

	return nil
}
