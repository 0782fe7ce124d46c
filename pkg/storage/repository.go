package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// OrderingRecord 一次排序请求的历史记录（对外导出）
// Edges 与 Order 均为1起始编号，与对外接口保持一致
type OrderingRecord struct {
	ID           string
	Tasks        int
	Edges        [][2]int
	Order        []int
	Cycle        bool
	ErrorMessage string
	Duration     time.Duration
	CreateTime   time.Time
}

// OrderingRepository 排序历史Repository接口（对外导出）
type OrderingRepository interface {
	// Save 保存记录
	Save(ctx context.Context, rec *OrderingRecord) error
	// GetByID 按ID查询，不存在时返回 ErrNotFound
	GetByID(ctx context.Context, id string) (*OrderingRecord, error)
	// List 按创建时间倒序列出最近的记录
	List(ctx context.Context, limit, offset int) ([]*OrderingRecord, error)
	// DeleteBefore 删除创建时间早于 before 的记录，返回删除数量
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	// Close 关闭数据库连接
	Close() error
}
