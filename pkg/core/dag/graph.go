package dag

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Graph 任务依赖图（对外导出）
// 节点在创建时一次性分配，之后只允许追加边；一个Graph实例只服务于一次排序请求
type Graph struct {
	vertices []Vertex
	edges    int
}

// New 创建包含 n 个节点、没有边的图
func New(n int) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidSize, n)
	}
	vertices := make([]Vertex, n)
	for i := range vertices {
		vertices[i].ID = i
	}
	return &Graph{vertices: vertices}, nil
}

// FromEdges 按给定顺序构建图
func FromEdges(n int, edges []Edge) (*Graph, error) {
	g, err := New(n)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddEdge 追加边 from -> to
// 任一端越界时拒绝写入，图保持不变
func (g *Graph) AddEdge(from, to int) error {
	if !g.contains(from) || !g.contains(to) {
		return &OutOfRangeError{From: from, To: to, Size: len(g.vertices)}
	}
	g.vertices[from].Successors = append(g.vertices[from].Successors, to)
	g.edges++
	return nil
}

// Size 节点数量
func (g *Graph) Size() int {
	return len(g.vertices)
}

// EdgeCount 边数量（重复边分别计数）
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Successors 返回节点的后继序列副本
func (g *Graph) Successors(v int) ([]int, error) {
	if !g.contains(v) {
		return nil, &OutOfRangeError{From: v, To: v, Size: len(g.vertices)}
	}
	out := make([]int, len(g.vertices[v].Successors))
	copy(out, g.vertices[v].Successors)
	return out, nil
}

// Edges 按插入顺序（先按起点ID，再按追加顺序）列出所有边
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for _, v := range g.vertices {
		for _, s := range v.Successors {
			edges = append(edges, Edge{From: v.ID, To: s})
		}
	}
	return edges
}

func (g *Graph) contains(v int) bool {
	return v >= 0 && v < len(g.vertices)
}

// Dump 输出图的邻接表，每行格式为 "id {入度} 后继 后继 ..."，ID按1起始编号
func (g *Graph) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range g.vertices {
		bw.WriteString(strconv.Itoa(v.ID + 1))
		bw.WriteString(" {")
		bw.WriteString(strconv.Itoa(v.InDegree))
		bw.WriteString("}")
		for _, s := range v.Successors {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(s + 1))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
