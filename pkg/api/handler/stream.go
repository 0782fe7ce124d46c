package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/LENAX/task-order/pkg/api/dto"
)

const streamWriteTimeout = 5 * time.Second

// StreamHandler 排序事件推送处理器
type StreamHandler struct {
	svc      OrderingService
	upgrader websocket.Upgrader
}

// NewStreamHandler 创建StreamHandler
func NewStreamHandler(svc OrderingService) *StreamHandler {
	return &StreamHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Stream 通过WebSocket推送排序事件
// GET /api/v1/orderings/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	ch, err := h.svc.Subscribe(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(503, err.Error()))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()
	// 清除 http.Server 的读超时，连接存活期间由客户端决定
	conn.SetReadDeadline(time.Time{})

	// 客户端断开时读循环返回，取消订阅
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debugf("WebSocket读取错误: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(e); err != nil {
				log.Debugf("推送事件失败: %v", err)
				return
			}
		}
	}
}
