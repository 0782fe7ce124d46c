// Package service 排序服务：在核心排序算法外围提供规模限制、结果缓存、历史记录与事件通知
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/LENAX/task-order/pkg/core/cache"
	"github.com/LENAX/task-order/pkg/core/dag"
	"github.com/LENAX/task-order/pkg/core/events"
	"github.com/LENAX/task-order/pkg/core/input"
	"github.com/LENAX/task-order/pkg/core/verify"
	"github.com/LENAX/task-order/pkg/storage"
)

var (
	// ErrTooLarge 请求超出规模限制
	ErrTooLarge = errors.New("请求超出规模限制")
	// ErrStorageDisabled 未配置历史记录存储
	ErrStorageDisabled = errors.New("未配置历史记录存储")
)

// Request 排序请求，边为1起始编号 [i, j]，表示任务 i 必须在任务 j 之前
type Request struct {
	Tasks int      `json:"tasks"`
	Edges [][2]int `json:"edges"`
}

// RequestFromProblem 把解析后的文本输入转换为请求
func RequestFromProblem(p *input.Problem) Request {
	edges := make([][2]int, len(p.Edges))
	for i, e := range p.Edges {
		edges[i] = [2]int{e.From + 1, e.To + 1}
	}
	return Request{Tasks: p.Tasks, Edges: edges}
}

// Digest 请求摘要：节点数与按顺序排列的边唯一决定排序结果
func (r Request) Digest() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.Tasks))
	for _, e := range r.Edges {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(e[0]))
		b.WriteByte('>')
		b.WriteString(strconv.Itoa(e[1]))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Result 排序结果
// Cycle 为 true 时 Order 为空：存在环时不暴露部分结果
type Result struct {
	ID        string        `json:"id"`
	Tasks     int           `json:"tasks"`
	Edges     int           `json:"edges"`
	Order     []int         `json:"order,omitempty"`
	Cycle     bool          `json:"cycle"`
	Cached    bool          `json:"cached"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Options 服务选项
type Options struct {
	MaxTasks int           // 单次请求最多任务数
	MaxEdges int           // 单次请求最多前置关系数
	Verify   bool          // 是否使用 go-dag 交叉校验
	CacheTTL time.Duration // 结果缓存有效期
}

// Service 排序服务（对外导出）
// 每个请求构建自己的图实例，服务本身可以被多个协程并发调用
type Service struct {
	opts      Options
	repo      storage.OrderingRepository
	cache     *cache.MemoryResultCache[*Result]
	bus       *events.Bus
	retention *RetentionScheduler
}

// New 创建排序服务；repo、c、bus 均可为空，为空时对应功能关闭
func New(opts Options, repo storage.OrderingRepository, c *cache.MemoryResultCache[*Result], bus *events.Bus) *Service {
	return &Service{
		opts:  opts,
		repo:  repo,
		cache: c,
		bus:   bus,
	}
}

// Order 计算拓扑序
// 输入非法或超出限制时返回错误；存在环时返回 Cycle=true 的结果
func (s *Service) Order(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	requestID := uuid.NewString()
	logger := log.WithFields(log.Fields{
		"request_id": requestID,
		"tasks":      req.Tasks,
		"edges":      len(req.Edges),
	})

	if err := s.checkLimits(req); err != nil {
		s.reject(requestID, req, err, start)
		logger.Warnf("⚠️ 拒绝排序请求: %v", err)
		return nil, err
	}

	digest := req.Digest()
	if s.cache != nil {
		if cached, ok := s.cache.Get(digest); ok {
			res := *cached
			res.Order = slices.Clone(cached.Order)
			res.ID = requestID
			res.Cached = true
			res.Duration = time.Since(start)
			res.CreatedAt = start
			s.finish(ctx, req, &res)
			logger.Debug("命中结果缓存")
			return &res, nil
		}
	}

	order, err := s.sort(req)
	if err != nil && !errors.Is(err, dag.ErrCycleDetected) {
		s.reject(requestID, req, err, start)
		logger.Warnf("⚠️ 拒绝排序请求: %v", err)
		return nil, err
	}

	res := &Result{
		ID:        requestID,
		Tasks:     req.Tasks,
		Edges:     len(req.Edges),
		Cycle:     err != nil,
		Duration:  time.Since(start),
		CreatedAt: start,
	}
	if !res.Cycle {
		res.Order = input.OneBased(order)
	}

	if s.cache != nil {
		stored := *res
		stored.Order = slices.Clone(res.Order)
		s.cache.Set(digest, &stored, s.opts.CacheTTL)
	}
	s.finish(ctx, req, res)

	if res.Cycle {
		logger.Info("🔁 检测到循环依赖，拓扑序不存在")
	} else {
		logger.WithField("duration", res.Duration).Info("✅ 排序完成")
	}
	return res, nil
}

func (s *Service) checkLimits(req Request) error {
	if req.Tasks < 1 {
		return fmt.Errorf("%w: n=%d", dag.ErrInvalidSize, req.Tasks)
	}
	if s.opts.MaxTasks > 0 && req.Tasks > s.opts.MaxTasks {
		return fmt.Errorf("%w: 任务数 %d 超过上限 %d", ErrTooLarge, req.Tasks, s.opts.MaxTasks)
	}
	if s.opts.MaxEdges > 0 && len(req.Edges) > s.opts.MaxEdges {
		return fmt.Errorf("%w: 前置关系数 %d 超过上限 %d", ErrTooLarge, len(req.Edges), s.opts.MaxEdges)
	}
	return nil
}

// sort 构建图并排序，返回0起始的拓扑序
func (s *Service) sort(req Request) ([]int, error) {
	g, err := dag.New(req.Tasks)
	if err != nil {
		return nil, err
	}
	for _, e := range req.Edges {
		if err := g.AddEdge(e[0]-1, e[1]-1); err != nil {
			return nil, fmt.Errorf("前置关系 %d -> %d 非法: %w", e[0], e[1], err)
		}
	}

	order, sortErr := dag.Sort(g)
	if !s.opts.Verify {
		return order, sortErr
	}

	if err := verify.CrossCheck(g, sortErr); err != nil {
		return nil, err
	}
	if sortErr == nil {
		if err := dag.VerifyOrder(g, order); err != nil {
			return nil, fmt.Errorf("拓扑序校验失败: %w", err)
		}
	}
	return order, sortErr
}

// finish 记录历史并发布事件；两者失败都只记录日志
func (s *Service) finish(ctx context.Context, req Request, res *Result) {
	if s.repo != nil {
		rec := &storage.OrderingRecord{
			ID:         res.ID,
			Tasks:      req.Tasks,
			Edges:      req.Edges,
			Order:      res.Order,
			Cycle:      res.Cycle,
			Duration:   res.Duration,
			CreateTime: res.CreatedAt,
		}
		if res.Cycle {
			rec.ErrorMessage = dag.ErrCycleDetected.Error()
		}
		if err := s.repo.Save(ctx, rec); err != nil {
			log.WithField("request_id", res.ID).Warnf("⚠️ 保存排序记录失败: %v", err)
		}
	}

	eventType := events.EventOrderingCompleted
	if res.Cycle {
		eventType = events.EventOrderingCycle
	}
	e := events.NewOrderingEvent(eventType, res.ID, res.Tasks, res.Edges).
		WithOrder(res.Order).
		WithDuration(res.Duration)
	e.Cached = res.Cached
	s.publish(e)
}

func (s *Service) reject(requestID string, req Request, err error, start time.Time) {
	s.publish(events.NewOrderingEvent(events.EventOrderingRejected, requestID, req.Tasks, len(req.Edges)).
		WithError(err).
		WithDuration(time.Since(start)))
}

func (s *Service) publish(e *events.OrderingEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(e); err != nil {
		log.WithField("request_id", e.RequestID).Warnf("⚠️ 发布事件失败: %v", err)
	}
}

// Subscribe 订阅排序事件
func (s *Service) Subscribe(ctx context.Context) (<-chan *events.OrderingEvent, error) {
	if s.bus == nil {
		return nil, errors.New("事件总线未启用")
	}
	return s.bus.Subscribe(ctx)
}

// History 按时间倒序查询排序历史
func (s *Service) History(ctx context.Context, limit, offset int) ([]*storage.OrderingRecord, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.repo.List(ctx, limit, offset)
}

// Get 查询单条排序历史
func (s *Service) Get(ctx context.Context, id string) (*storage.OrderingRecord, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	return s.repo.GetByID(ctx, id)
}

// Prune 删除早于 maxAge 的历史记录
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, ErrStorageDisabled
	}
	return s.repo.DeleteBefore(ctx, time.Now().Add(-maxAge))
}

// StorageEnabled 是否记录历史
func (s *Service) StorageEnabled() bool {
	return s.repo != nil
}

// Close 停止后台任务并释放资源
func (s *Service) Close() error {
	if s.retention != nil {
		s.retention.Stop()
	}
	if s.cache != nil {
		s.cache.Close()
	}
	var errs []error
	if s.bus != nil {
		errs = append(errs, s.bus.Close())
	}
	if s.repo != nil {
		errs = append(errs, s.repo.Close())
	}
	return errors.Join(errs...)
}
