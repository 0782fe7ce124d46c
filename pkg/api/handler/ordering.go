package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/task-order/pkg/api/dto"
	"github.com/LENAX/task-order/pkg/core/events"
	"github.com/LENAX/task-order/pkg/core/input"
	"github.com/LENAX/task-order/pkg/service"
	"github.com/LENAX/task-order/pkg/storage"
)

// OrderingService 处理器依赖的排序服务
type OrderingService interface {
	Order(ctx context.Context, req service.Request) (*service.Result, error)
	History(ctx context.Context, limit, offset int) ([]*storage.OrderingRecord, error)
	Get(ctx context.Context, id string) (*storage.OrderingRecord, error)
	Subscribe(ctx context.Context) (<-chan *events.OrderingEvent, error)
	StorageEnabled() bool
}

// OrderingHandler 排序API处理器
type OrderingHandler struct {
	svc OrderingService
}

// NewOrderingHandler 创建OrderingHandler
func NewOrderingHandler(svc OrderingService) *OrderingHandler {
	return &OrderingHandler{svc: svc}
}

// Create 计算拓扑序
// POST /api/v1/orderings
func (h *OrderingHandler) Create(c *gin.Context) {
	var req dto.OrderingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("请求参数错误: %v", err)))
		return
	}
	h.order(c, service.Request{Tasks: req.Tasks, Edges: req.Edges})
}

// CreateText 以文本格式提交排序请求
// POST /api/v1/orderings/text
func (h *OrderingHandler) CreateText(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("读取请求体失败: %v", err)))
		return
	}

	p, err := input.Parse(bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("解析输入失败: %v", err)))
		return
	}
	h.order(c, service.RequestFromProblem(p))
}

func (h *OrderingHandler) order(c *gin.Context, req service.Request) {
	res, err := h.svc.Order(c.Request.Context(), req)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, dto.NewErrorResponse(status, err.Error()))
		return
	}

	resp := toOrderingResponse(res)
	if res.Cycle {
		c.JSON(http.StatusConflict, dto.NewErrorResponseWithData(409, input.NoOrderMessage, resp))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// List 查询排序历史
// GET /api/v1/orderings
func (h *OrderingHandler) List(c *gin.Context) {
	var query dto.HistoryQueryRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(400, fmt.Sprintf("查询参数错误: %v", err)))
		return
	}

	limit := query.GetDefaultLimit()
	// 多取一条用于判断是否还有更多记录
	records, err := h.svc.History(c.Request.Context(), limit+1, query.Offset)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, dto.NewErrorResponse(status, fmt.Sprintf("查询排序历史失败: %v", err)))
		return
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}
	items := make([]dto.OrderingRecord, 0, len(records))
	for _, rec := range records {
		items = append(items, toOrderingRecord(rec))
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse[dto.OrderingRecord]{
		Total:   len(items),
		Items:   items,
		HasMore: hasMore,
	}))
}

// Get 查询单条排序历史
// GET /api/v1/orderings/:id
func (h *OrderingHandler) Get(c *gin.Context) {
	id := c.Param("id")

	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		status := statusFor(err)
		c.JSON(status, dto.NewErrorResponse(status, fmt.Sprintf("查询排序记录失败: %v", err)))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(toOrderingRecord(rec)))
}

func toOrderingResponse(res *service.Result) dto.OrderingResponse {
	return dto.OrderingResponse{
		ID:        res.ID,
		Tasks:     res.Tasks,
		Edges:     res.Edges,
		Order:     res.Order,
		Cycle:     res.Cycle,
		Cached:    res.Cached,
		Duration:  res.Duration.String(),
		CreatedAt: res.CreatedAt,
	}
}

func toOrderingRecord(rec *storage.OrderingRecord) dto.OrderingRecord {
	return dto.OrderingRecord{
		ID:           rec.ID,
		Tasks:        rec.Tasks,
		Edges:        rec.Edges,
		Order:        rec.Order,
		Cycle:        rec.Cycle,
		ErrorMessage: rec.ErrorMessage,
		Duration:     rec.Duration.Round(time.Microsecond).String(),
		CreatedAt:    rec.CreateTime,
	}
}
