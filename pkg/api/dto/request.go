package dto

// OrderingRequest 排序请求（JSON）
// Edges 为1起始编号 [i, j]，表示任务 i 必须在任务 j 之前
type OrderingRequest struct {
	Tasks int      `json:"tasks" binding:"required,min=1"`
	Edges [][2]int `json:"edges" binding:"omitempty"`
}

// HistoryQueryRequest 排序历史查询请求
type HistoryQueryRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// GetDefaultLimit 获取默认limit
func (r *HistoryQueryRequest) GetDefaultLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}
