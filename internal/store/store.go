package store

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/talkmaster-dashboard/internal/config"
)

// Entity names used as generation counters.
const (
	EntityTalks     = "talks"
	EntityRooms     = "rooms"
	EntityRoles     = "roles"
	EntityUsers     = "users"
	EntityPlannings = "plannings"
)

// Store is the shared read-through cache every entity store goes through.
// A nil cache disables caching. Cache failures are logged and the fetch goes
// to the API.
type Store struct {
	cache  Cache
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// New builds a Store from its parts.
func New(cache Cache, ttl time.Duration, prefix string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{cache: cache, ttl: ttl, prefix: prefix, log: log}
}

// FromConfig picks the Redis backend when rdb is non-nil and the in-process
// LRU otherwise.
func FromConfig(cfg config.CacheConfig, rdb *redis.Client, log *slog.Logger) *Store {
	if !cfg.Enabled {
		return New(nil, cfg.TTL, cfg.Prefix, log)
	}
	var c Cache
	if rdb != nil {
		c = NewRedisCache(rdb, cfg.Prefix)
	} else {
		c = NewMemoryCache(cfg.MaxEntries, cfg.TTL)
	}
	return New(c, cfg.TTL, cfg.Prefix, log)
}

// Invalidate bumps the generation of each entity so the next read refetches.
func (s *Store) Invalidate(ctx context.Context, entities ...string) {
	if s == nil || s.cache == nil {
		return
	}
	for _, e := range entities {
		if err := s.cache.Bump(ctx, e); err != nil {
			s.log.WarnContext(ctx, "cache invalidate failed", "entity", e, "err", err)
		}
	}
}

// Version joins the current generations of entities, for callers that cache
// renders derived from them. ok is false when a generation cannot be read.
// Without a cache the version is empty.
func (s *Store) Version(ctx context.Context, entities ...string) (string, bool) {
	if s == nil || s.cache == nil {
		return "", true
	}
	parts := make([]string, 0, len(entities))
	for _, e := range entities {
		gen, err := s.cache.Generation(ctx, e)
		if err != nil {
			s.log.WarnContext(ctx, "cache generation failed", "entity", e, "err", err)
			return "", false
		}
		parts = append(parts, strconv.FormatInt(gen, 10))
	}
	return strings.Join(parts, "."), true
}

func (s *Store) key(ctx context.Context, entity, token, scope string) (string, bool) {
	gen, err := s.cache.Generation(ctx, entity)
	if err != nil {
		s.log.WarnContext(ctx, "cache generation failed", "entity", entity, "err", err)
		return "", false
	}
	// Results depend on who asks (e.g. /talks/me), so the token is part of the key.
	sum := sha1.Sum([]byte(token + "|" + scope))
	return fmt.Sprintf("%s:%s:%d:%x", s.prefix, entity, gen, sum[:]), true
}

// readThrough returns the cached value for (entity, token, scope) or calls
// fetch and caches what it returns. Errors from fetch are never cached.
func readThrough[T any](ctx context.Context, s *Store, entity, token, scope string, fetch func(context.Context) (T, error)) (T, error) {
	if s == nil || s.cache == nil {
		return fetch(ctx)
	}
	key, ok := s.key(ctx, entity, token, scope)
	if !ok {
		return fetch(ctx)
	}

	if bs, hit, err := s.cache.Get(ctx, key); err != nil {
		s.log.WarnContext(ctx, "cache read failed", "entity", entity, "err", err)
	} else if hit {
		var v T
		if err := json.Unmarshal(bs, &v); err == nil {
			return v, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if bs, err := json.Marshal(v); err == nil {
		if err := s.cache.Set(ctx, key, bs, s.ttl); err != nil {
			s.log.WarnContext(ctx, "cache write failed", "entity", entity, "err", err)
		}
	}
	return v, nil
}
