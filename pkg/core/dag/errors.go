package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize 节点数量小于1
	ErrInvalidSize = errors.New("节点数量必须大于等于1")
	// ErrOutOfRange 边引用了 [0, n) 之外的节点
	ErrOutOfRange = errors.New("节点ID越界")
	// ErrCycleDetected 图中存在环，不存在拓扑序
	ErrCycleDetected = errors.New("检测到循环依赖，拓扑序不存在")
)

// OutOfRangeError 越界边的详细信息（对外导出）
type OutOfRangeError struct {
	From int
	To   int
	Size int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%v: 边 %d -> %d 超出 [0, %d)", ErrOutOfRange, e.From, e.To, e.Size)
}

// Unwrap 使 errors.Is(err, ErrOutOfRange) 成立
func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// CycleError 排序失败时残留的节点（入度仍大于0）
// Remaining 只用于诊断，不是部分排序结果
type CycleError struct {
	Remaining []int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %d 个节点无法排序", ErrCycleDetected, len(e.Remaining))
}

// Unwrap 使 errors.Is(err, ErrCycleDetected) 成立
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
