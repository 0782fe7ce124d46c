// Package input 读取任务排序问题的文本格式并渲染排序结果
//
// 文本格式：第一行 "n m"，随后 m 行 "i j"，表示任务 i 必须在任务 j 之前执行。
// 任务按1起始编号，进入图存储前转换为0起始。
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LENAX/task-order/pkg/core/dag"
)

// ErrMalformed 行内容不是两个整数
var ErrMalformed = errors.New("输入格式错误")

// ErrUnexpectedEOF 声明的边数多于实际提供的行数
var ErrUnexpectedEOF = errors.New("输入提前结束")

// ParseError 带行号的解析错误（对外导出）
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("第 %d 行: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Problem 已校验的排序问题，边为0起始编号
type Problem struct {
	Tasks int
	Edges []dag.Edge
}

// Graph 按边的原始顺序构建图存储
func (p *Problem) Graph() (*dag.Graph, error) {
	return dag.FromEdges(p.Tasks, p.Edges)
}

// Parse 解析文本输入
// 空行会被跳过；m 可以为0；多余的行被忽略
func Parse(r io.Reader) (*Problem, error) {
	sc := bufio.NewScanner(r)
	line := 0

	next := func() (int, int, error) {
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			a, b, err := splitPair(text)
			if err != nil {
				return 0, 0, &ParseError{Line: line, Err: err}
			}
			return a, b, nil
		}
		if err := sc.Err(); err != nil {
			return 0, 0, fmt.Errorf("读取输入失败: %w", err)
		}
		return 0, 0, &ParseError{Line: line + 1, Err: ErrUnexpectedEOF}
	}

	n, m, err := next()
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("%w: n=%d", dag.ErrInvalidSize, n)}
	}
	if m < 0 {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("%w: 边数不能为负数: %d", ErrMalformed, m)}
	}

	p := &Problem{Tasks: n, Edges: make([]dag.Edge, 0, min(m, 1024))}
	for k := 0; k < m; k++ {
		i, j, err := next()
		if err != nil {
			return nil, err
		}
		if i < 1 || i > n || j < 1 || j > n {
			return nil, &ParseError{Line: line, Err: &dag.OutOfRangeError{From: i - 1, To: j - 1, Size: n}}
		}
		p.Edges = append(p.Edges, dag.Edge{From: i - 1, To: j - 1})
	}
	return p, nil
}

// ParseString 解析字符串形式的输入
func ParseString(s string) (*Problem, error) {
	return Parse(strings.NewReader(s))
}

func splitPair(text string) (int, int, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: 期望两个整数，实际: %q", ErrMalformed, text)
	}
	a, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q 不是整数", ErrMalformed, fields[0])
	}
	b, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q 不是整数", ErrMalformed, fields[1])
	}
	return a, b, nil
}
