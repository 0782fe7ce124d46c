package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// RetentionScheduler 定时清理排序历史（对外导出）
type RetentionScheduler struct {
	cron    *cron.Cron
	svc     *Service
	maxAge  time.Duration
	timeout time.Duration
	entryID cron.EntryID
	mu      sync.Mutex
	running bool
}

// NewRetentionScheduler 创建清理调度器
// spec: 标准五段Cron表达式或 @every 描述符
func NewRetentionScheduler(svc *Service, spec string, maxAge time.Duration) (*RetentionScheduler, error) {
	if !svc.StorageEnabled() {
		return nil, ErrStorageDisabled
	}

	rs := &RetentionScheduler{
		cron:    cron.New(),
		svc:     svc,
		maxAge:  maxAge,
		timeout: time.Minute,
	}

	entryID, err := rs.cron.AddFunc(spec, rs.prune)
	if err != nil {
		return nil, fmt.Errorf("retention Cron表达式无效: %w", err)
	}
	rs.entryID = entryID
	return rs, nil
}

// prune 执行一次清理（内部方法）
func (rs *RetentionScheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()

	deleted, err := rs.svc.Prune(ctx, rs.maxAge)
	if err != nil {
		log.Errorf("❌ [Retention] 清理排序历史失败: %v", err)
		return
	}
	log.WithField("deleted", deleted).Infof("🧹 [Retention] 已清理 %s 之前的排序历史", rs.maxAge)
}

// Next 下一次执行时间
func (rs *RetentionScheduler) Next() time.Time {
	return rs.cron.Entry(rs.entryID).Next
}

// Start 启动调度器
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.running {
		return
	}
	rs.cron.Start()
	rs.running = true
	log.Println("✅ [Retention] 已启动")
}

// Stop 停止调度器并等待正在执行的清理结束
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if !rs.running {
		return
	}
	<-rs.cron.Stop().Done()
	rs.running = false
	log.Println("✅ [Retention] 已停止")
}
