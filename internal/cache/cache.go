// Package cache stores computed API responses so repeated graph queries can
// be served without hitting the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Purge removes every entry whose key starts with prefix.
	Purge(ctx context.Context, prefix string) error
}

// Remember returns the cached value for key if present, otherwise computes it
// with fn and stores the result. Cache failures never fail the call: they are
// logged and the value is computed fresh.
func Remember[T any](ctx context.Context, c Cache, logger *slog.Logger, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if c == nil || ttl <= 0 {
		return fn(ctx)
	}

	if raw, err := c.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		} else if logger != nil {
			logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		}
	} else if !errors.Is(err, ErrMiss) && logger != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
	}

	value, err := fn(ctx)
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		if logger != nil {
			logger.Warn("cache encode failed", "key", key, "error", err)
		}
		return value, nil
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil && logger != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Noop) Purge(context.Context, string) error { return nil }
