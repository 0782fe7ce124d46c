package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/task-order/pkg/api/dto"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version   string
	startTime time.Time
	svc       OrderingService
}

// NewHealthHandler 创建HealthHandler
func NewHealthHandler(version string, svc OrderingService) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		svc:       svc,
	}
}

// Health 健康检查
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    formatDuration(uptime),
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}

// Ready 就绪检查
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(503, "排序服务未就绪"))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ReadyResponse{
		Status:  "ready",
		Storage: h.svc.StorageEnabled(),
	}))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
