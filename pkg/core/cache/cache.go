// Package cache 排序结果缓存
// 排序结果只由节点数与边序列决定，相同请求可以直接复用
package cache

import (
	"sync"
	"time"
)

// ResultCache 结果缓存接口（对外导出）
type ResultCache[V any] interface {
	// Set 设置缓存值
	// key: 请求摘要
	// ttl: 缓存有效期
	Set(key string, value V, ttl time.Duration) error

	// Get 获取缓存值
	// 返回: 结果数据和是否存在
	Get(key string) (V, bool)

	// Delete 删除缓存值
	Delete(key string) error

	// Clear 清空所有缓存
	Clear() error
}

// cacheEntry 缓存条目（内部使用）
type cacheEntry[V any] struct {
	value      V
	expireTime time.Time
}

// MemoryResultCache 内存结果缓存实现（对外导出）
type MemoryResultCache[V any] struct {
	mu    sync.Mutex
	cache map[string]*cacheEntry[V]
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryResultCache 创建内存结果缓存实例（对外导出）
// cleanInterval 大于0时启动清理协程，定期清理过期缓存，调用 Close 停止
func NewMemoryResultCache[V any](cleanInterval time.Duration) *MemoryResultCache[V] {
	c := &MemoryResultCache[V]{
		cache: make(map[string]*cacheEntry[V]),
		stop:  make(chan struct{}),
	}
	if cleanInterval > 0 {
		go c.cleanupExpired(cleanInterval)
	}
	return c
}

// Set 设置缓存值
func (c *MemoryResultCache[V]) Set(key string, value V, ttl time.Duration) error {
	if key == "" {
		return nil // 空key，忽略
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = &cacheEntry[V]{
		value:      value,
		expireTime: time.Now().Add(ttl),
	}
	return nil
}

// Get 获取缓存值
func (c *MemoryResultCache[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache[key]
	if !exists {
		return zero, false
	}

	// 已过期，删除并返回不存在
	if time.Now().After(entry.expireTime) {
		delete(c.cache, key)
		return zero, false
	}

	return entry.value, true
}

// Delete 删除缓存值
func (c *MemoryResultCache[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
	return nil
}

// Clear 清空所有缓存
func (c *MemoryResultCache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*cacheEntry[V])
	return nil
}

// Len 当前缓存条目数（含尚未清理的过期条目）
func (c *MemoryResultCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Close 停止清理协程
func (c *MemoryResultCache[V]) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanupExpired 清理过期缓存（内部方法）
func (c *MemoryResultCache[V]) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purge(time.Now())
		}
	}
}

func (c *MemoryResultCache[V]) purge(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.cache {
		if now.After(entry.expireTime) {
			delete(c.cache, key)
		}
	}
}

var _ ResultCache[int] = (*MemoryResultCache[int])(nil)
