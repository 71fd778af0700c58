package yieldrisk

import (
	"context"
	"sync"
	"time"
)

// Compute runs the whole pipeline for one request: single-trial PMF, N-fold
// aggregation, support trimming, profit mapping, probability of profit and
// summary statistics. It is a pure function of req.
func Compute(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	single, err := SingleTrialPMF(req.Model)
	if err != nil {
		return nil, err
	}

	aggregated, err := Aggregate(single, req.TrialCount, req.Strategy)
	if err != nil {
		return nil, err
	}

	support, pmf, err := TrimSupport(aggregated, req.TrialCount, req.Model.Min())
	if err != nil {
		return nil, err
	}

	profit, err := MapProfit(support, req.TrialCount, req.Cost)
	if err != nil {
		return nil, err
	}

	probability, err := ProbabilityOfProfit(pmf, profit)
	if err != nil {
		return nil, err
	}

	summary, err := Summarize(profit, pmf)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TrialCount:          req.TrialCount,
		Support:             support,
		PMF:                 pmf,
		Profit:              profit,
		ProbabilityOfProfit: probability,
		Summary:             summary,
	}
	if be, ok := BreakEven(support, profit); ok {
		result.BreakEven = &be
	}
	return result, nil
}

// Engine wraps Compute with an optional result cache, logging and metrics.
// It is safe for concurrent use.
type Engine struct {
	cache   ResultCache
	logger  Logger
	monitor *PerformanceMonitor
	mu      sync.RWMutex
}

// Option configures an Engine
type Option func(*Engine)

// WithCache sets the result cache
func WithCache(cache ResultCache) Option {
	return func(e *Engine) { e.cache = cache }
}

// WithLogger sets the logger
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMonitor sets the performance monitor
func WithMonitor(monitor *PerformanceMonitor) Option {
	return func(e *Engine) {
		if monitor != nil {
			e.monitor = monitor
		}
	}
}

// NewEngine creates a new engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:  &DefaultLogger{},
		monitor: NewPerformanceMonitor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLogger replaces the engine logger
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// SetCache replaces the result cache; nil disables caching
func (e *Engine) SetCache(cache ResultCache) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = cache
}

// Monitor returns the engine performance monitor
func (e *Engine) Monitor() *PerformanceMonitor { return e.monitor }

func (e *Engine) snapshot() (ResultCache, Logger) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache, e.logger
}

// Compute validates req, serves it from the cache when possible and otherwise
// runs the pure pipeline. Cache failures are logged and never fail the call.
func (e *Engine) Compute(ctx context.Context, req Request) (*Result, error) {
	cache, logger := e.snapshot()

	if err := req.Validate(); err != nil {
		e.monitor.RecordComputation(false, 0, 0)
		logger.Debug("Compute rejected request %s: %v", req, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, newError(ErrSystemError).WithDetails("context done before compute").WithCause(err)
	}

	key := req.Fingerprint()
	if cache != nil {
		cached, ok, err := cache.Get(ctx, key)
		switch {
		case err != nil:
			e.monitor.RecordCacheError()
			logger.Error("Result cache lookup failed for key=%s: %v", key, err)
		case ok:
			e.monitor.RecordCacheHit()
			logger.Debug("Result cache hit: key=%s, %s", key, req)
			return cached, nil
		default:
			e.monitor.RecordCacheMiss()
		}
	}

	start := time.Now()
	result, err := Compute(req)
	duration := time.Since(start)
	if err != nil {
		e.monitor.RecordComputation(false, duration, 0)
		logger.Error("Compute failed for %s: %v", req, err)
		return nil, err
	}
	e.monitor.RecordComputation(true, duration, result.Len())
	logger.Debug("Computed %s in %v: support=%d, probability_of_profit=%.6f",
		req, duration, result.Len(), result.ProbabilityOfProfit)

	if cache != nil {
		if err := cache.Set(ctx, key, result); err != nil {
			e.monitor.RecordCacheError()
			logger.Error("Result cache store failed for key=%s: %v", key, err)
		}
	}

	return result, nil
}
