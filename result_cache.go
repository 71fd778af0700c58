package yieldrisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisResultCache memoises computed results in Redis as JSON with a TTL.
// Repeated UI-driven recomputation of the same parameters hits the cache.
type RedisResultCache struct {
	client         redis.UniversalClient
	logger         Logger
	keyPrefix      string
	ttl            time.Duration
	retryAttempts  int
	retryBaseDelay time.Duration
}

// NewRedisResultCache creates a cache with default TTL and retry settings
func NewRedisResultCache(client redis.UniversalClient, logger Logger) *RedisResultCache {
	return NewRedisResultCacheFromConfig(client, DefaultCacheConfig(), logger)
}

// NewRedisResultCacheFromConfig creates a cache from a CacheConfig
func NewRedisResultCacheFromConfig(client redis.UniversalClient, config *CacheConfig, logger Logger) *RedisResultCache {
	if config == nil {
		config = DefaultCacheConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = CacheKeyPrefix
	}
	return &RedisResultCache{
		client:         client,
		logger:         logger,
		keyPrefix:      prefix,
		ttl:            config.TTL,
		retryAttempts:  config.RetryAttempts,
		retryBaseDelay: config.RetryInterval,
	}
}

// Key returns the Redis key for a request fingerprint
func (c *RedisResultCache) Key(fingerprint string) string { return c.keyPrefix + fingerprint }

// TTL returns the expiry applied to stored results
func (c *RedisResultCache) TTL() time.Duration { return c.ttl }

// Get loads a result. A missing key is a miss, not an error.
func (c *RedisResultCache) Get(ctx context.Context, fingerprint string) (*Result, bool, error) {
	if fingerprint == "" {
		return nil, false, newError(ErrInvalidArgument).WithDetails("empty cache key")
	}
	key := c.Key(fingerprint)

	var data []byte
	err := c.executeWithRetry(ctx, fmt.Sprintf("get[%s]", key), func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key).Bytes()
		if errors.Is(getErr, redis.Nil) {
			data = nil
			return nil
		}
		return getErr
	})
	if err != nil {
		return nil, false, newError(ErrCacheUnavailable).WithOperation("get").WithCause(err)
	}
	if len(data) == 0 {
		c.logger.Debug("Result cache miss: key=%s", key)
		return nil, false, nil
	}

	result, err := deserializeResult(data)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// Set stores a result under the fingerprint with the configured TTL
func (c *RedisResultCache) Set(ctx context.Context, fingerprint string, result *Result) error {
	if fingerprint == "" {
		return newError(ErrInvalidArgument).WithDetails("empty cache key")
	}
	key := c.Key(fingerprint)

	data, err := serializeResult(result)
	if err != nil {
		return err
	}

	err = c.executeWithRetry(ctx, fmt.Sprintf("set[%s]", key), func() error {
		return c.client.Set(ctx, key, data, c.ttl).Err()
	})
	if err != nil {
		return newError(ErrCacheUnavailable).WithOperation("set").WithCause(err)
	}

	c.logger.Debug("Stored result: key=%s, size=%d bytes, ttl=%v", key, len(data), c.ttl)
	return nil
}

// Delete removes a cached result
func (c *RedisResultCache) Delete(ctx context.Context, fingerprint string) error {
	key := c.Key(fingerprint)
	err := c.executeWithRetry(ctx, fmt.Sprintf("delete[%s]", key), func() error {
		return c.client.Del(ctx, key).Err()
	})
	if err != nil {
		return newError(ErrCacheUnavailable).WithOperation("delete").WithCause(err)
	}
	return nil
}

// executeWithRetry executes a Redis operation with exponential backoff
func (c *RedisResultCache) executeWithRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			delay := min(time.Duration(1<<(attempt-1))*c.retryBaseDelay, maxRetryDelay)

			c.logger.Debug("Retrying %s (attempt %d/%d) after %v", operation, attempt, c.retryAttempts, delay)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry for %s after %v: %w",
					operation, time.Since(startTime), ctx.Err())
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				c.logger.Info("%s succeeded after %d retries", operation, attempt)
			}
			return nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			c.logger.Debug("Non-retryable error for %s: %v", operation, err)
			break
		}
	}

	return fmt.Errorf("%s failed after %v: %w", operation, time.Since(startTime), lastErr)
}

func serializeResult(result *Result) ([]byte, error) {
	if err := result.Validate(); err != nil {
		return nil, newError(ErrSerializationFailed).WithCause(err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, newError(ErrSerializationFailed).WithCause(err)
	}
	if len(data) > MaxSerializationSize {
		return nil, newError(ErrSerializationFailed).
			WithDetailsf("serialized result is %d bytes, limit %d (support=%d)", len(data), MaxSerializationSize, result.Len())
	}
	return data, nil
}

func deserializeResult(data []byte) (*Result, error) {
	if len(data) > MaxSerializationSize {
		return nil, newError(ErrDeserializationFailed).
			WithDetailsf("cached payload is %d bytes, limit %d", len(data), MaxSerializationSize)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, newError(ErrDeserializationFailed).WithCause(err)
	}
	if err := result.Validate(); err != nil {
		return nil, newError(ErrDeserializationFailed).WithDetails("cached result is corrupted").WithCause(err)
	}
	return &result, nil
}
