package yieldrisk

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMetrics 性能指标
type PerformanceMetrics struct {
	// 计算统计
	TotalComputations      int64 `json:"total_computations"`      // 总计算次数
	SuccessfulComputations int64 `json:"successful_computations"` // 成功计算次数
	FailedComputations     int64 `json:"failed_computations"`     // 失败计算次数

	// 耗时统计
	TotalComputeTime   int64 `json:"total_compute_time"`   // 总计算时间(纳秒)
	AverageComputeTime int64 `json:"average_compute_time"` // 平均计算时间(纳秒)
	LargestSupport     int64 `json:"largest_support"`      // 最大支撑集长度

	// 缓存统计
	CacheHits   int64 `json:"cache_hits"`   // 缓存命中次数
	CacheMisses int64 `json:"cache_misses"` // 缓存未命中次数
	CacheErrors int64 `json:"cache_errors"` // 缓存错误次数

	// 时间戳
	StartTime      int64 `json:"start_time"`       // 开始时间
	LastUpdateTime int64 `json:"last_update_time"` // 最后更新时间
}

// GetSuccessRate 获取成功率(百分比)
func (pm *PerformanceMetrics) GetSuccessRate() float64 {
	total := atomic.LoadInt64(&pm.TotalComputations)
	if total == 0 {
		return 0.0
	}
	return float64(atomic.LoadInt64(&pm.SuccessfulComputations)) / float64(total) * 100.0
}

// GetCacheHitRate 获取缓存命中率(百分比)
func (pm *PerformanceMetrics) GetCacheHitRate() float64 {
	hits := atomic.LoadInt64(&pm.CacheHits)
	lookups := hits + atomic.LoadInt64(&pm.CacheMisses)
	if lookups == 0 {
		return 0.0
	}
	return float64(hits) / float64(lookups) * 100.0
}

// GetAverageComputeTime 获取平均计算时间
func (pm *PerformanceMetrics) GetAverageComputeTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&pm.AverageComputeTime))
}

// Reset 重置性能指标
func (pm *PerformanceMetrics) Reset() {
	atomic.StoreInt64(&pm.TotalComputations, 0)
	atomic.StoreInt64(&pm.SuccessfulComputations, 0)
	atomic.StoreInt64(&pm.FailedComputations, 0)
	atomic.StoreInt64(&pm.TotalComputeTime, 0)
	atomic.StoreInt64(&pm.AverageComputeTime, 0)
	atomic.StoreInt64(&pm.LargestSupport, 0)
	atomic.StoreInt64(&pm.CacheHits, 0)
	atomic.StoreInt64(&pm.CacheMisses, 0)
	atomic.StoreInt64(&pm.CacheErrors, 0)
	now := time.Now().UnixNano()
	atomic.StoreInt64(&pm.StartTime, now)
	atomic.StoreInt64(&pm.LastUpdateTime, now)
}

// ================================================================================

// PerformanceMonitor 性能监控器
type PerformanceMonitor struct {
	metrics *PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		metrics: &PerformanceMetrics{},
		enabled: true,
	}
	pm.metrics.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// RecordComputation 记录一次计算
func (pm *PerformanceMonitor) RecordComputation(success bool, duration time.Duration, supportLen int) {
	if !pm.IsEnabled() {
		return
	}

	total := atomic.AddInt64(&pm.metrics.TotalComputations, 1)
	totalTime := atomic.AddInt64(&pm.metrics.TotalComputeTime, int64(duration))
	atomic.StoreInt64(&pm.metrics.AverageComputeTime, totalTime/total)

	if success {
		atomic.AddInt64(&pm.metrics.SuccessfulComputations, 1)
	} else {
		atomic.AddInt64(&pm.metrics.FailedComputations, 1)
	}

	// 更新最大支撑集长度
	for {
		current := atomic.LoadInt64(&pm.metrics.LargestSupport)
		if int64(supportLen) <= current ||
			atomic.CompareAndSwapInt64(&pm.metrics.LargestSupport, current, int64(supportLen)) {
			break
		}
	}

	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordCacheHit 记录缓存命中
func (pm *PerformanceMonitor) RecordCacheHit() { pm.add(&pm.metrics.CacheHits) }

// RecordCacheMiss 记录缓存未命中
func (pm *PerformanceMonitor) RecordCacheMiss() { pm.add(&pm.metrics.CacheMisses) }

// RecordCacheError 记录缓存错误
func (pm *PerformanceMonitor) RecordCacheError() { pm.add(&pm.metrics.CacheErrors) }

func (pm *PerformanceMonitor) add(counter *int64) {
	if !pm.IsEnabled() {
		return
	}
	atomic.AddInt64(counter, 1)
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		TotalComputations:      atomic.LoadInt64(&pm.metrics.TotalComputations),
		SuccessfulComputations: atomic.LoadInt64(&pm.metrics.SuccessfulComputations),
		FailedComputations:     atomic.LoadInt64(&pm.metrics.FailedComputations),
		TotalComputeTime:       atomic.LoadInt64(&pm.metrics.TotalComputeTime),
		AverageComputeTime:     atomic.LoadInt64(&pm.metrics.AverageComputeTime),
		LargestSupport:         atomic.LoadInt64(&pm.metrics.LargestSupport),
		CacheHits:              atomic.LoadInt64(&pm.metrics.CacheHits),
		CacheMisses:            atomic.LoadInt64(&pm.metrics.CacheMisses),
		CacheErrors:            atomic.LoadInt64(&pm.metrics.CacheErrors),
		StartTime:              atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:         atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// ResetMetrics 重置性能指标
func (pm *PerformanceMonitor) ResetMetrics() { pm.metrics.Reset() }
