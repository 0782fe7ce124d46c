// Package events 排序请求的事件定义与基于 watermill 的进程内事件总线
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

const (
	EventOrderingCompleted EventType = "ordering.completed" // 得到完整拓扑序
	EventOrderingCycle     EventType = "ordering.cycle"     // 检测到环
	EventOrderingRejected  EventType = "ordering.rejected"  // 输入非法或超出限制
)

// OrderingEvent 排序事件（对外导出）
type OrderingEvent struct {
	ID        string    `json:"id"`              // 事件ID（UUID）
	Type      EventType `json:"type"`            // 事件类型
	RequestID string    `json:"request_id"`      // 关联请求ID
	Tasks     int       `json:"tasks"`           // 任务数量
	Edges     int       `json:"edges"`           // 前置关系数量
	Order     []int     `json:"order,omitempty"` // 拓扑序（1起始），仅成功时存在
	Cached    bool      `json:"cached"`          // 是否命中缓存
	Error     string    `json:"error,omitempty"` // 拒绝原因
	Duration  string    `json:"duration"`        // 处理耗时
	Timestamp time.Time `json:"timestamp"`       // 事件时间
}

// NewOrderingEvent 创建排序事件
func NewOrderingEvent(eventType EventType, requestID string, tasks, edges int) *OrderingEvent {
	return &OrderingEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: requestID,
		Tasks:     tasks,
		Edges:     edges,
		Timestamp: time.Now(),
	}
}

// WithOrder 设置拓扑序
func (e *OrderingEvent) WithOrder(order []int) *OrderingEvent {
	e.Order = order
	return e
}

// WithError 设置拒绝原因
func (e *OrderingEvent) WithError(err error) *OrderingEvent {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration 设置处理耗时
func (e *OrderingEvent) WithDuration(d time.Duration) *OrderingEvent {
	e.Duration = d.String()
	return e
}
