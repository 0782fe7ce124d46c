package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/LENAX/task-order/pkg/cli/output"
	"github.com/LENAX/task-order/pkg/cli/taskorder"
	"github.com/LENAX/task-order/pkg/core/dag"
	"github.com/LENAX/task-order/pkg/core/input"
	"github.com/LENAX/task-order/pkg/core/verify"
)

const banner = "ORDERING TASKS\n***************\n"

var (
	sortDump   bool
	sortQuiet  bool
	sortVerify bool
)

// sortResult sort命令的JSON输出
type sortResult struct {
	ID    string `json:"id,omitempty"`
	Tasks int    `json:"tasks"`
	Edges int    `json:"edges"`
	Order []int  `json:"order,omitempty"`
	Cycle bool   `json:"cycle"`
}

// sortCmd sort命令
var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "计算任务的拓扑序",
	Long: `读取任务与前置关系并输出一个满足所有前置关系的执行顺序。
存在循环依赖时输出 "Topological order does not exist."。

示例：
  # 从文件读取
  task-order sort tasks.txt

  # 从标准输入读取，只输出结果
  echo "3 2
  1 2
  2 3" | task-order sort --quiet

  # 提交到服务端计算
  task-order sort tasks.txt --server http://localhost:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverURL != "" {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return sortRemote(cmd.OutOrStdout(), string(data))
		}

		_, p, err := parseInput(cmd, args, cfg.TaskOrder.Limits.MaxTasks, cfg.TaskOrder.Limits.MaxEdges)
		if err != nil {
			return err
		}
		return sortLocal(cmd.OutOrStdout(), p, sortVerify || cfg.TaskOrder.Limits.Verify)
	},
}

func sortLocal(w io.Writer, p *input.Problem, verifyOrder bool) error {
	g, err := p.Graph()
	if err != nil {
		return err
	}

	if !outputJSON && !sortQuiet {
		fmt.Fprint(w, banner)
	}
	if sortDump && !outputJSON {
		g.ComputeInDegrees()
		if err := g.Dump(w); err != nil {
			return err
		}
	}

	order, sortErr := dag.Sort(g)
	if sortErr != nil && !errors.Is(sortErr, dag.ErrCycleDetected) {
		return sortErr
	}
	if verifyOrder {
		if err := verify.CrossCheck(g, sortErr); err != nil {
			return err
		}
		if sortErr == nil {
			if err := dag.VerifyOrder(g, order); err != nil {
				return err
			}
		}
	}

	if outputJSON {
		res := sortResult{Tasks: p.Tasks, Edges: len(p.Edges), Cycle: sortErr != nil}
		if sortErr == nil {
			res.Order = input.OneBased(order)
		}
		return output.PrintJSON(w, res)
	}
	return input.WriteResult(w, order, sortErr)
}

func sortRemote(w io.Writer, text string) error {
	client := taskorder.New(serverURL)
	res, err := client.OrderText(text)
	if err != nil {
		return err
	}

	if outputJSON {
		return output.PrintJSON(w, sortResult{
			ID:    res.ID,
			Tasks: res.Tasks,
			Edges: res.Edges,
			Order: res.Order,
			Cycle: res.Cycle,
		})
	}
	if !sortQuiet {
		fmt.Fprint(w, banner)
	}
	if res.Cycle {
		_, err = fmt.Fprintln(w, input.NoOrderMessage)
		return err
	}
	_, err = fmt.Fprintln(w, joinIDs(res.Order))
	return err
}

func init() {
	sortCmd.Flags().BoolVar(&sortDump, "dump", false, "输出图结构（每行：任务 {入度} 后继...）")
	sortCmd.Flags().BoolVarP(&sortQuiet, "quiet", "q", false, "不输出标题")
	sortCmd.Flags().BoolVar(&sortVerify, "verify", false, "使用独立的DAG实现交叉校验结果")
}
