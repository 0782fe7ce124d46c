package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/LENAX/task-order/pkg/api/handler"
	"github.com/LENAX/task-order/pkg/config"
)

// ServerConfig API服务器配置
type ServerConfig struct {
	Host           string        // 监听地址
	Port           int           // 监听端口
	ReadTimeout    time.Duration // 读取超时
	WriteTimeout   time.Duration // 写入超时
	RequestTimeout time.Duration // 单个排序请求超时
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		RequestTimeout: 10 * time.Second,
	}
}

// ServerConfigFrom 从服务配置中读取API服务器配置
func ServerConfigFrom(cfg *config.Config) ServerConfig {
	s := cfg.TaskOrder.Server
	return ServerConfig{
		Host:           s.Host,
		Port:           s.Port,
		ReadTimeout:    s.ReadTimeout,
		WriteTimeout:   s.WriteTimeout,
		RequestTimeout: s.RequestTimeout,
	}
}

// APIServer HTTP API服务器
type APIServer struct {
	svc        handler.OrderingService
	httpServer *http.Server
	config     ServerConfig
	version    string

	mu       sync.Mutex
	listener net.Listener
}

// NewAPIServer 创建API服务器
func NewAPIServer(svc handler.OrderingService, config ServerConfig, version string) *APIServer {
	return &APIServer{
		svc:     svc,
		config:  config,
		version: version,
	}
}

// Handler 获取路由处理器
func (s *APIServer) Handler() *gin.Engine {
	return SetupRouter(s.svc, s.version, s.config.RequestTimeout)
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *APIServer) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("server listen failed: %w", err)
	}
	return s.Serve(ln)
}

// Serve 在给定监听器上提供服务
func (s *APIServer) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	log.Infof("🚀 Task Order API Server starting on %s", ln.Addr())

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen failed: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭服务器
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	log.Info("🛑 Shutting down API Server...")

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("✅ API Server stopped")
	return nil
}

// Addr 获取服务器地址；已监听时返回实际地址
func (s *APIServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
