package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LENAX/task-order/pkg/core/input"
	"github.com/LENAX/task-order/pkg/service"
)

// readInput 读取文件参数或标准输入（参数为空或为 "-" 时）
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("读取标准输入失败: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("读取输入文件失败: %w", err)
	}
	return data, nil
}

// parseInput 读取并解析输入，任务数与前置关系数分别不能超过 maxTasks、maxEdges（<=0 表示不限制）
func parseInput(cmd *cobra.Command, args []string, maxTasks, maxEdges int) ([]byte, *input.Problem, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	p, err := input.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("解析输入失败: %w", err)
	}
	if maxTasks > 0 && p.Tasks > maxTasks {
		return nil, nil, fmt.Errorf("%w: 任务数 %d 超过上限 %d", service.ErrTooLarge, p.Tasks, maxTasks)
	}
	if maxEdges > 0 && len(p.Edges) > maxEdges {
		return nil, nil, fmt.Errorf("%w: 前置关系数 %d 超过上限 %d", service.ErrTooLarge, len(p.Edges), maxEdges)
	}
	return data, p, nil
}

// joinIDs 以空格连接已是1起始的编号
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, v := range ids {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
