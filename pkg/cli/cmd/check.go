package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LENAX/task-order/pkg/cli/output"
	"github.com/LENAX/task-order/pkg/core/dag"
	"github.com/LENAX/task-order/pkg/core/input"
	"github.com/LENAX/task-order/pkg/core/verify"
)

// checkResult check命令的JSON输出
type checkResult struct {
	Acyclic bool  `json:"acyclic"`
	Blocked []int `json:"blocked,omitempty"`
}

// checkCmd check命令
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "检查前置关系是否存在循环依赖",
	Long: `检查前置关系是否存在循环依赖，存在时以非零状态退出，
并列出因循环依赖无法执行的任务。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, p, err := parseInput(cmd, args, cfg.TaskOrder.Limits.MaxTasks, cfg.TaskOrder.Limits.MaxEdges)
		if err != nil {
			return err
		}
		g, err := p.Graph()
		if err != nil {
			return err
		}

		acyclic, err := verify.Acyclic(g)
		if err != nil {
			return err
		}

		res := checkResult{Acyclic: acyclic}
		if !acyclic {
			var cycleErr *dag.CycleError
			if _, sortErr := dag.Sort(g); errors.As(sortErr, &cycleErr) {
				res.Blocked = input.OneBased(cycleErr.Remaining)
			}
		}

		if outputJSON {
			if err := output.PrintJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
		} else if acyclic {
			output.Success("无循环依赖：%d 个任务，%d 条前置关系", p.Tasks, len(p.Edges))
		} else {
			output.Warning("无法执行的任务: %s", joinIDs(res.Blocked))
		}

		if !acyclic {
			return fmt.Errorf("检查失败: %w", dag.ErrCycleDetected)
		}
		return nil
	},
}
