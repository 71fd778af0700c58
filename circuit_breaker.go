package yieldrisk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerCache 带熔断器的结果缓存
//
// When Redis keeps failing the breaker opens and lookups fail fast, so the
// engine computes directly instead of waiting on retries.
type BreakerCache struct {
	cache ResultCache

	breaker *gobreaker.CircuitBreaker
	mu      sync.RWMutex
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewBreakerCache 创建带熔断器的结果缓存
func NewBreakerCache(cache ResultCache, config *CircuitBreakerConfig, logger Logger) *BreakerCache {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	bc := &BreakerCache{
		cache:  cache,
		logger: logger,
		config: config,
	}
	if config.Enabled {
		bc.breaker = gobreaker.NewCircuitBreaker(bc.settings())
	}
	return bc
}

func (c *BreakerCache) settings() gobreaker.Settings {
	config := c.config
	return gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// 数据损坏不是 Redis 故障
			return err == nil || errors.Is(err, ErrDeserializationFailed) || errors.Is(err, ErrSerializationFailed)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				c.logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}
}

func (c *BreakerCache) current() *gobreaker.CircuitBreaker {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.breaker
}

// executeWithBreaker 使用熔断器执行操作
func (c *BreakerCache) executeWithBreaker(operation func() (any, error)) (any, error) {
	breaker := c.current()
	if breaker == nil {
		return operation()
	}

	result, err := breaker.Execute(operation)
	if errors.Is(err, gobreaker.ErrOpenState) {
		return nil, newError(ErrCircuitBreakerOpen).WithDetails("circuit breaker is open, cache requests are being rejected")
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, newError(ErrCircuitBreakerOpen).WithDetails("too many requests, circuit breaker is half-open")
	}
	return result, err
}

type cacheEntry struct {
	result *Result
	ok     bool
}

// Get 读取缓存结果
func (c *BreakerCache) Get(ctx context.Context, key string) (*Result, bool, error) {
	v, err := c.executeWithBreaker(func() (any, error) {
		result, ok, err := c.cache.Get(ctx, key)
		return cacheEntry{result: result, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}

	entry := v.(cacheEntry)
	return entry.result, entry.ok, nil
}

// Set 写入缓存结果
func (c *BreakerCache) Set(ctx context.Context, key string, result *Result) error {
	_, err := c.executeWithBreaker(func() (any, error) {
		return nil, c.cache.Set(ctx, key, result)
	})
	return err
}

// State 获取熔断器状态
func (c *BreakerCache) State() string {
	breaker := c.current()
	if breaker == nil {
		return "disabled"
	}

	switch breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts 获取熔断器统计信息
func (c *BreakerCache) Counts() gobreaker.Counts {
	breaker := c.current()
	if breaker == nil {
		return gobreaker.Counts{}
	}
	return breaker.Counts()
}

// Reset 重置熔断器 (gobreaker 没有 Reset 方法，重新创建实例)
func (c *BreakerCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.breaker == nil {
		return
	}
	c.breaker = gobreaker.NewCircuitBreaker(c.settings())
	c.logger.Info("Circuit breaker '%s' has been reset", c.config.Name)
}

// HealthCheck 熔断器健康检查
func (c *BreakerCache) HealthCheck() map[string]any {
	result := map[string]any{
		"circuit_breaker_enabled": c.config.Enabled,
		"timestamp":               time.Now().Unix(),
	}

	if c.current() == nil {
		result["state"] = "disabled"
		result["healthy"] = true
		return result
	}

	state := c.State()
	counts := c.Counts()

	result["state"] = state
	result["requests"] = counts.Requests
	result["total_successes"] = counts.TotalSuccesses
	result["total_failures"] = counts.TotalFailures
	result["consecutive_failures"] = counts.ConsecutiveFailures

	if counts.Requests > 0 {
		result["failure_rate"] = float64(counts.TotalFailures) / float64(counts.Requests)
	} else {
		result["failure_rate"] = 0.0
	}

	// 半开状态下，如果连续失败次数过多，认为不健康
	healthy := true
	switch state {
	case "open":
		healthy = false
	case "half-open":
		healthy = counts.ConsecutiveFailures <= 2
	}
	result["healthy"] = healthy

	return result
}
