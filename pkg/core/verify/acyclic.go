// Package verify 使用 go-dag 对依赖图做独立的无环校验，用于交叉检查排序结果
package verify

import (
	"errors"
	"fmt"
	"strconv"

	godag "github.com/begmaroman/go-dag"

	"github.com/LENAX/task-order/pkg/core/dag"
)

// taskVertex 实现 go-dag 的 Identifiable 接口
type taskVertex struct {
	id int
}

// ID 实现 Identifiable 接口
func (v *taskVertex) ID() string {
	return strconv.Itoa(v.id)
}

// Hash 实现 Hashable 接口，按节点ID区分顶点
func (v *taskVertex) Hash() (godag.VHash, error) {
	return godag.ToHash(v.ID())
}

// Acyclic 判断图是否无环
// go-dag 不接受重复边与自环：重复边只添加一次（不影响连通性），自环直接视为环
// 只有 EdgeLoopError / SrcDstEqualError 视为检测到环，其余错误原样返回
func Acyclic(g *dag.Graph) (bool, error) {
	d := godag.NewDAG[*taskVertex]()
	for i := 0; i < g.Size(); i++ {
		if _, err := d.AddVertex(&taskVertex{id: i}); err != nil {
			return false, fmt.Errorf("添加节点失败: ID=%d, Error=%w", i, err)
		}
	}

	seen := make(map[dag.Edge]struct{}, g.EdgeCount())
	for _, e := range g.Edges() {
		if e.From == e.To {
			return false, nil
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		if err := d.AddEdge(strconv.Itoa(e.From), strconv.Itoa(e.To)); err != nil {
			if isLoopError(err) {
				return false, nil
			}
			return false, fmt.Errorf("添加边失败: %d -> %d, Error=%w", e.From, e.To, err)
		}
	}
	return true, nil
}

func isLoopError(err error) bool {
	var loopErr godag.EdgeLoopError
	var equalErr godag.SrcDstEqualError
	return errors.As(err, &loopErr) || errors.As(err, &equalErr)
}

// CrossCheck 用 go-dag 的结论核对 dag.Sort 的结论
// sortErr 为 dag.Sort 返回的错误；两者结论不一致时返回错误
func CrossCheck(g *dag.Graph, sortErr error) error {
	acyclic, err := Acyclic(g)
	if err != nil {
		return err
	}
	sorted := sortErr == nil
	if acyclic != sorted {
		return fmt.Errorf("交叉校验不一致: go-dag无环=%v, 排序成功=%v", acyclic, sorted)
	}
	return nil
}
