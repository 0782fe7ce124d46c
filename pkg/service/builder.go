package service

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	internalstorage "github.com/LENAX/task-order/internal/storage"
	"github.com/LENAX/task-order/pkg/config"
	"github.com/LENAX/task-order/pkg/core/cache"
	"github.com/LENAX/task-order/pkg/core/events"
)

// NewFromConfig 按配置装配排序服务：存储、缓存、事件总线与历史清理
func NewFromConfig(cfg *config.Config) (*Service, error) {
	opts := Options{
		MaxTasks: cfg.TaskOrder.Limits.MaxTasks,
		MaxEdges: cfg.TaskOrder.Limits.MaxEdges,
		Verify:   cfg.TaskOrder.Limits.Verify,
		CacheTTL: cfg.TaskOrder.Storage.Cache.DefaultTTL,
	}

	repo, err := internalstorage.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var resultCache *cache.MemoryResultCache[*Result]
	if cfg.TaskOrder.Storage.Cache.Enabled {
		resultCache = cache.NewMemoryResultCache[*Result](cfg.TaskOrder.Storage.Cache.CleanInterval)
	}

	var bus *events.Bus
	if cfg.TaskOrder.Events.Enabled {
		bus = events.NewBus(cfg.TaskOrder.Events.BufferSize, log.StandardLogger())
	}

	svc := New(opts, repo, resultCache, bus)

	retention := cfg.TaskOrder.Storage.Retention
	if retention.Enabled && repo != nil {
		rs, err := NewRetentionScheduler(svc, retention.Cron, retention.MaxAge)
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("创建历史清理调度器失败: %w", err)
		}
		svc.retention = rs
		rs.Start()
	}

	log.WithFields(log.Fields{
		"instance":  cfg.TaskOrder.General.InstanceName,
		"max_tasks": opts.MaxTasks,
		"storage":   cfg.GetDatabaseType(),
		"cache":     resultCache != nil,
		"events":    bus != nil,
	}).Info("✅ 排序服务已就绪")
	return svc, nil
}
