package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LENAX/task-order/pkg/api"
	"github.com/LENAX/task-order/pkg/cli/output"
	"github.com/LENAX/task-order/pkg/service"
)

var (
	serverPort int
	serverHost string
)

// serveCmd 启动服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP API服务",
	Long: `启动Task Order HTTP API服务。

示例：
  # 使用默认配置启动
  task-order serve

  # 指定端口启动
  task-order serve --port 8080

  # 指定配置文件启动
  task-order serve --config ./configs/task-order.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			output.Error("加载配置失败: %v", err)
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.TaskOrder.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.TaskOrder.Server.Port = serverPort
		}
		if log.GetLevel() < log.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		svc, err := service.NewFromConfig(cfg)
		if err != nil {
			output.Error("创建排序服务失败: %v", err)
			return err
		}
		defer svc.Close()

		apiServer := api.NewAPIServer(svc, api.ServerConfigFrom(cfg), Version)

		errCh := make(chan error, 1)
		go func() {
			errCh <- apiServer.Start()
		}()

		output.Success("Task Order Server started on %s", apiServer.Addr())

		// 等待中断信号
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errCh:
			if err != nil {
				output.Error("API服务器错误: %v", err)
			}
			return err
		case <-ctx.Done():
		}

		output.Info("正在关闭服务...")

		// 优雅关闭
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.TaskOrder.Server.WriteTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			output.Error("关闭API服务器失败: %v", err)
			return err
		}

		output.Success("服务已停止")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "监听端口")
	serveCmd.Flags().StringVarP(&serverHost, "host", "H", "0.0.0.0", "监听地址")
}
