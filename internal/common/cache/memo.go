package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vehicle-finance-workers/internal/common/logger"
	"vehicle-finance-workers/internal/common/metrics"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "calc"

// Memo memoizes calculation results in Redis keyed by their input tuple.
// Redis failures never fail a calculation; the value is computed directly.
type Memo struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func New(rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *Memo {
	return &Memo{rdb: rdb, ttl: ttl, logger: log}
}

// Key derives a stable cache key from a namespace and the JSON encoding of
// the input parts.
func Key(namespace string, parts ...interface{}) (string, error) {
	payload, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	d := xxhash.New()
	_, _ = d.WriteString(namespace)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(payload)
	return fmt.Sprintf("%s:%s:%016x", keyPrefix, namespace, d.Sum64()), nil
}

// GetOrCompute returns the cached value for key or stores the result of
// compute. The boolean reports a cache hit. A nil Memo always computes.
func GetOrCompute[T any](ctx context.Context, m *Memo, key string, compute func() (T, error)) (T, bool, error) {
	if m == nil || m.rdb == nil || m.ttl <= 0 {
		v, err := compute()
		return v, false, err
	}

	raw, err := m.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			metrics.CalculationCache.WithLabelValues(metrics.CacheHit).Inc()
			return cached, true, nil
		}
		m.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
		metrics.CalculationCache.WithLabelValues(metrics.CacheMiss).Inc()
	default:
		metrics.CalculationCache.WithLabelValues(metrics.CacheError).Inc()
		m.logger.Warn("cache read failed, computing directly", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		v, err := compute()
		return v, false, err
	}

	v, err := compute()
	if err != nil {
		return v, false, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return v, false, nil
	}
	if err := m.rdb.Set(ctx, key, encoded, m.ttl).Err(); err != nil {
		metrics.CalculationCache.WithLabelValues(metrics.CacheError).Inc()
		m.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return v, false, nil
}
