package redisstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter shared by every API instance.
type Limiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewLimiter(client *redis.Client, prefix string) *Limiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Limiter{client: client, prefix: prefix, now: time.Now}
}

// Allow counts one attempt for (identifier, action) in the current window and reports whether
// the count is still within limit.
func (l *Limiter) Allow(ctx context.Context, identifier, action string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	key := windowKey(l.prefix, identifier, action, l.now(), window)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", action, err)
	}
	return incr.Val() <= int64(limit), nil
}

// windowKey buckets now into fixed windows aligned to the unix epoch.
func windowKey(prefix, identifier, action string, now time.Time, window time.Duration) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("%s:%s:%s:%d", prefix, action, strings.ToLower(strings.TrimSpace(identifier)), bucket)
}

// MemoryLimiter is the single-process fallback used when Redis is disabled.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]memoryBucket
	now     func() time.Time
}

type memoryBucket struct {
	count   int
	expires time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]memoryBucket), now: time.Now}
}

func (m *MemoryLimiter) Allow(_ context.Context, identifier, action string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	now := m.now()
	key := windowKey("", identifier, action, now, window)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Expired buckets are swept on write; the map stays bounded by active windows.
	for k, b := range m.buckets {
		if !now.Before(b.expires) {
			delete(m.buckets, k)
		}
	}
	b := m.buckets[key]
	if b.count == 0 {
		b.expires = now.Truncate(window).Add(window)
	}
	b.count++
	m.buckets[key] = b
	return b.count <= limit, nil
}
