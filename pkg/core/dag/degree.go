package dag

// ComputeInDegrees 根据当前边集重新计算所有节点的入度
// 先清零再累加，因此在同一张图上重复调用得到相同结果；每次排序前都必须调用
func (g *Graph) ComputeInDegrees() {
	for i := range g.vertices {
		g.vertices[i].InDegree = 0
	}
	for _, v := range g.vertices {
		for _, s := range v.Successors {
			g.vertices[s].InDegree++
		}
	}
}

// InDegree 返回节点当前的入度
func (g *Graph) InDegree(v int) (int, error) {
	if !g.contains(v) {
		return 0, &OutOfRangeError{From: v, To: v, Size: len(g.vertices)}
	}
	return g.vertices[v].InDegree, nil
}

// InDegrees 返回所有节点当前入度的快照
func (g *Graph) InDegrees() []int {
	out := make([]int, len(g.vertices))
	for i, v := range g.vertices {
		out[i] = v.InDegree
	}
	return out
}
