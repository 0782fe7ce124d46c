// Package dag 任务依赖图：图存储、入度索引与基于根节点消解（Kahn）的拓扑排序
package dag

// Vertex 任务节点（对外导出）
// 同一条记录同时持有后继序列与入度，不再区分普通节点与带度数的扩展节点
type Vertex struct {
	ID         int   // 节点ID，取值范围 [0, n)
	Successors []int // 直接后继（依赖当前节点的任务），保留边的插入顺序，允许重复
	InDegree   int   // 尚未被消解的前驱边数量
}

// Edge 前置关系 From -> To，表示 From 必须排在 To 之前
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}
