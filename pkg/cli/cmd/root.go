package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/LENAX/task-order/pkg/cli/output"
	"github.com/LENAX/task-order/pkg/config"
)

var (
	// 全局变量
	serverURL  string
	outputJSON bool
	configPath string
	logLevel   string
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "task-order",
	Short: "Task Order CLI - 任务拓扑排序命令行工具",
	Long: `Task Order CLI 根据任务之间的前置关系计算执行顺序。

支持的功能：
  - 计算拓扑序（本地计算或提交到服务端）
  - 检查前置关系是否存在循环依赖
  - 查询与清理排序历史
  - 启动HTTP API服务

输入格式：第一行为 "n m"，随后 m 行 "i j" 表示任务 i 必须在任务 j 之前（编号从1开始）。

使用示例：
  # 从标准输入读取并排序
  task-order sort < tasks.txt

  # 检查循环依赖
  task-order check tasks.txt

  # 启动HTTP服务
  task-order serve --port 8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		output.SetWriter(cmd.ErrOrStderr())
		log.SetOutput(cmd.ErrOrStderr())
		if logLevel == "" {
			return nil
		}
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("日志级别无效: %w", err)
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

// loadConfig 加载配置；未通过 --log-level 指定时使用配置文件中的日志级别
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		if level, err := log.ParseLevel(cfg.TaskOrder.General.LogLevel); err == nil {
			log.SetLevel(level)
		}
	}
	return cfg, nil
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Task Order服务器地址，为空时在本地计算")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "使用JSON格式输出")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别（debug/info/warn/error）")

	// 添加子命令
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
