package input

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LENAX/task-order/pkg/core/dag"
)

// NoOrderMessage 存在环时的输出
const NoOrderMessage = "Topological order does not exist."

// OneBased 把0起始的拓扑序转换为1起始编号
func OneBased(order []int) []int {
	out := make([]int, len(order))
	for i, v := range order {
		out[i] = v + 1
	}
	return out
}

// FormatOrder 以空格分隔输出1起始编号
func FormatOrder(order []int) string {
	parts := make([]string, len(order))
	for i, v := range order {
		parts[i] = strconv.Itoa(v + 1)
	}
	return strings.Join(parts, " ")
}

// WriteResult 输出排序结果：成功时输出拓扑序，存在环时输出 NoOrderMessage
// 其他错误原样返回，不写任何内容
func WriteResult(w io.Writer, order []int, err error) error {
	switch {
	case err == nil:
		_, werr := fmt.Fprintln(w, FormatOrder(order))
		return werr
	case errors.Is(err, dag.ErrCycleDetected):
		_, werr := fmt.Fprintln(w, NoOrderMessage)
		return werr
	default:
		return err
	}
}
