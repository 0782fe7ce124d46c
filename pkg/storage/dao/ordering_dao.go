package dao

import (
	"database/sql"
	"time"
)

// OrderingDAO ordering_history表的数据访问对象（内部使用）
type OrderingDAO struct {
	ID           string         `db:"id"`
	Tasks        int            `db:"tasks"`
	EdgeCount    int            `db:"edge_count"`
	Edges        string         `db:"edges"`        // JSON格式存储
	ResultOrder  sql.NullString `db:"result_order"` // JSON格式存储，存在环时为空
	Cycle        bool           `db:"has_cycle"`
	ErrorMessage sql.NullString `db:"error_message"`
	DurationUS   int64          `db:"duration_us"`
	CreateTime   time.Time      `db:"create_time"`
}
