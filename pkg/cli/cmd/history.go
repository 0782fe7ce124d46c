package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	internalstorage "github.com/LENAX/task-order/internal/storage"
	"github.com/LENAX/task-order/pkg/api/dto"
	"github.com/LENAX/task-order/pkg/cli/output"
	"github.com/LENAX/task-order/pkg/cli/taskorder"
	"github.com/LENAX/task-order/pkg/service"
	"github.com/LENAX/task-order/pkg/storage"
)

var (
	historyLimit     int
	historyOffset    int
	historyOlderThan time.Duration
)

// historyCmd history命令
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查询排序历史",
	Long: `查询排序历史。指定 --server 时查询服务端，否则直接读取配置文件中的数据库。

示例：
  task-order history --limit 10
  task-order history show <id>
  task-order history prune --older-than 168h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var items []dto.OrderingRecord
		if serverURL != "" {
			list, err := taskorder.New(serverURL).ListOrderings(historyLimit, historyOffset)
			if err != nil {
				return err
			}
			items = list.Items
		} else {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			records, err := repo.List(cmd.Context(), historyLimit, historyOffset)
			if err != nil {
				return err
			}
			for _, rec := range records {
				items = append(items, recordToDTO(rec))
			}
		}

		if outputJSON {
			return output.PrintJSON(cmd.OutOrStdout(), items)
		}
		if len(items) == 0 {
			output.Info("暂无排序历史")
			return nil
		}
		renderHistory(cmd.OutOrStdout(), items)
		return nil
	},
}

// historyShowCmd 查询单条记录
var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "查看单条排序历史",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rec dto.OrderingRecord
		if serverURL != "" {
			r, err := taskorder.New(serverURL).GetOrdering(args[0])
			if err != nil {
				return err
			}
			rec = *r
		} else {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			r, err := repo.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rec = recordToDTO(r)
		}

		if outputJSON {
			return output.PrintJSON(cmd.OutOrStdout(), rec)
		}
		renderHistory(cmd.OutOrStdout(), []dto.OrderingRecord{rec})
		return nil
	},
}

// historyPruneCmd 清理历史
var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "删除早于指定时长的排序历史",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL != "" {
			return fmt.Errorf("prune 只能在本地执行")
		}
		repo, err := openRepository()
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		deleted, err := repo.DeleteBefore(ctx, time.Now().Add(-historyOlderThan))
		if err != nil {
			return err
		}
		if outputJSON {
			return output.PrintJSON(cmd.OutOrStdout(), map[string]int64{"deleted": deleted})
		}
		output.Success("已删除 %d 条排序历史", deleted)
		return nil
	},
}

func openRepository() (storage.OrderingRepository, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	repo, err := internalstorage.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, service.ErrStorageDisabled
	}
	return repo, nil
}

func recordToDTO(rec *storage.OrderingRecord) dto.OrderingRecord {
	return dto.OrderingRecord{
		ID:           rec.ID,
		Tasks:        rec.Tasks,
		Edges:        rec.Edges,
		Order:        rec.Order,
		Cycle:        rec.Cycle,
		ErrorMessage: rec.ErrorMessage,
		Duration:     rec.Duration.String(),
		CreatedAt:    rec.CreateTime,
	}
}

func renderHistory(w io.Writer, items []dto.OrderingRecord) {
	table := output.NewTable([]string{"ID", "TASKS", "EDGES", "RESULT", "DURATION", "CREATED"})
	for _, item := range items {
		result := joinIDs(item.Order)
		if item.Cycle {
			result = "cycle"
		}
		table.AddRow([]string{
			item.ID,
			strconv.Itoa(item.Tasks),
			strconv.Itoa(len(item.Edges)),
			result,
			item.Duration,
			item.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	table.Render(w)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "返回数量")
	historyCmd.Flags().IntVarP(&historyOffset, "offset", "o", 0, "偏移量")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 7*24*time.Hour, "删除早于该时长的记录")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
