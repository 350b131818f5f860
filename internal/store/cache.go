// Package store holds the read-through entity stores the dashboard renders
// from. Entries are keyed by entity generation so that a mutation of an
// entity makes every cached list of it unreachable at once.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache is the backend of the entity stores. Implementations must be safe for
// concurrent use. A miss is reported as ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Generation(ctx context.Context, entity string) (int64, error)
	Bump(ctx context.Context, entity string) error
}

// RedisCache stores entries with SETEX and generations as INCR counters, so
// every dashboard replica sees the same invalidations.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache wraps rdb. prefix namespaces every key.
func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (r *RedisCache) genKey(entity string) string { return r.prefix + ":gen:" + entity }

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	bs, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bs, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.rdb.SetEx(ctx, key, val, ttl).Err()
}

func (r *RedisCache) Generation(ctx context.Context, entity string) (int64, error) {
	s, err := r.rdb.Get(ctx, r.genKey(entity)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("store: generation %s: %w", entity, err)
	}
	return n, nil
}

func (r *RedisCache) Bump(ctx context.Context, entity string) error {
	return r.rdb.Incr(ctx, r.genKey(entity)).Err()
}

// MemoryCache is the in-process fallback used when Redis is not configured.
// Entries share the single TTL the cache was built with.
type MemoryCache struct {
	entries *lru.LRU[string, []byte]

	mu   sync.Mutex
	gens map[string]int64
}

// NewMemoryCache keeps at most size entries for ttl each.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{
		entries: lru.NewLRU[string, []byte](size, nil, ttl),
		gens:    make(map[string]int64),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries.Get(key)
	return v, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	m.entries.Add(key, val)
	return nil
}

func (m *MemoryCache) Generation(_ context.Context, entity string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[entity], nil
}

func (m *MemoryCache) Bump(_ context.Context, entity string) error {
	m.mu.Lock()
	m.gens[entity]++
	m.mu.Unlock()
	return nil
}
