package dto

import "time"

// APIResponse 通用API响应结构
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) APIResponse[any] {
	return APIResponse[any]{
		Code:    code,
		Message: message,
	}
}

// NewErrorResponseWithData 创建带数据的错误响应
func NewErrorResponseWithData[T any](code int, message string, data T) APIResponse[T] {
	return APIResponse[T]{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// OrderingResponse 排序结果
type OrderingResponse struct {
	ID        string    `json:"id"`
	Tasks     int       `json:"tasks"`
	Edges     int       `json:"edges"`
	Order     []int     `json:"order,omitempty"`
	Cycle     bool      `json:"cycle"`
	Cached    bool      `json:"cached"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderingRecord 排序历史记录
type OrderingRecord struct {
	ID           string    `json:"id"`
	Tasks        int       `json:"tasks"`
	Edges        [][2]int  `json:"edges"`
	Order        []int     `json:"order,omitempty"`
	Cycle        bool      `json:"cycle"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Duration     string    `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse 就绪检查响应
type ReadyResponse struct {
	Status  string `json:"status"`
	Storage bool   `json:"storage"`
}

// ListResponse 列表响应
type ListResponse[T any] struct {
	Total   int  `json:"total"`
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}
