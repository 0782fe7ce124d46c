package dag

import "fmt"

// Sort 基于根节点消解的拓扑排序（对外导出）
// 1. 重新计算入度
// 2. 所有入度为0的节点按ID升序作为初始根节点
// 3. 按发现顺序（FIFO）逐个消解根节点，后继按边的插入顺序减少入度，入度恰好降为0时追加到结果末尾
// 4. 结果长度不足 n 说明存在环，返回 *CycleError，不暴露部分结果
// 时间复杂度 O(n + m)
func Sort(g *Graph) ([]int, error) {
	g.ComputeInDegrees()

	n := len(g.vertices)
	// order 同时充当根节点队列：head 之前为已消解，head 之后为待消解
	order := make([]int, 0, n)
	for _, v := range g.vertices {
		if v.InDegree == 0 {
			order = append(order, v.ID)
		}
	}

	for head := 0; head < len(order); head++ {
		root := order[head]
		for _, s := range g.vertices[root].Successors {
			g.vertices[s].InDegree--
			if g.vertices[s].InDegree == 0 {
				order = append(order, s)
			}
		}
	}

	if len(order) != n {
		remaining := make([]int, 0, n-len(order))
		for _, v := range g.vertices {
			if v.InDegree > 0 {
				remaining = append(remaining, v.ID)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}
	return order, nil
}

// VerifyOrder 校验 order 是否为图的合法拓扑序：
// 长度等于 n、每个节点恰好出现一次、每条边的起点都排在终点之前
func VerifyOrder(g *Graph, order []int) error {
	n := len(g.vertices)
	if len(order) != n {
		return fmt.Errorf("拓扑序长度错误，期望: %d, 实际: %d", n, len(order))
	}
	position := make([]int, n)
	for i := range position {
		position[i] = -1
	}
	for i, v := range order {
		if !g.contains(v) {
			return &OutOfRangeError{From: v, To: v, Size: n}
		}
		if position[v] >= 0 {
			return fmt.Errorf("节点 %d 重复出现", v)
		}
		position[v] = i
	}
	for _, v := range g.vertices {
		for _, s := range v.Successors {
			if position[v.ID] >= position[s] {
				return fmt.Errorf("违反前置关系: %d 必须排在 %d 之前", v.ID, s)
			}
		}
	}
	return nil
}
