package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LENAX/task-order/pkg/api/handler"
	"github.com/LENAX/task-order/pkg/api/middleware"
)

// SetupRouter 设置路由
// requestTimeout 只作用于排序计算与历史查询，不影响事件推送
func SetupRouter(svc handler.OrderingService, version string, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()

	// 全局中间件
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// 创建handlers
	orderingHandler := handler.NewOrderingHandler(svc)
	streamHandler := handler.NewStreamHandler(svc)
	healthHandler := handler.NewHealthHandler(version, svc)

	// 健康检查路由（不带前缀）
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		v1.GET("/orderings/stream", streamHandler.Stream)

		orderings := v1.Group("/orderings", middleware.Timeout(requestTimeout))
		{
			orderings.POST("", orderingHandler.Create)
			orderings.POST("/text", orderingHandler.CreateText)
			orderings.GET("", orderingHandler.List)
			orderings.GET("/:id", orderingHandler.Get)
		}
	}

	return router
}
