package cache

import (
	"context"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local cache. Expired entries are dropped on read,
// on Purge and by the periodic sweep started with Run.
type MemoryCache struct {
	entries *xsync.MapOf[string, memoryEntry]
	nowFn   func() time.Time
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: xsync.NewMapOf[string, memoryEntry](),
		nowFn:   time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := m.entries.Load(key)
	if !ok {
		return nil, ErrMiss
	}
	if !m.nowFn().Before(entry.expiresAt) {
		m.entries.Delete(key)
		return nil, ErrMiss
	}
	return entry.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.entries.Store(key, memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.nowFn().Add(ttl),
	})
	return nil
}

func (m *MemoryCache) Purge(_ context.Context, prefix string) error {
	now := m.nowFn()
	m.entries.Range(func(key string, entry memoryEntry) bool {
		if strings.HasPrefix(key, prefix) || !now.Before(entry.expiresAt) {
			m.entries.Delete(key)
		}
		return true
	})
	return nil
}

// Sweep deletes every expired entry and returns how many were removed.
func (m *MemoryCache) Sweep() int {
	now := m.nowFn()
	removed := 0
	m.entries.Range(func(key string, entry memoryEntry) bool {
		if !now.Before(entry.expiresAt) {
			m.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps expired entries every interval until ctx is cancelled.
func (m *MemoryCache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (m *MemoryCache) Len() int {
	return m.entries.Size()
}
