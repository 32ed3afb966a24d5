package favorites

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists favorite ids per owner. Persistence is best effort: callers
// log errors and keep the in-memory tracker authoritative.
type Store interface {
	Load(ctx context.Context, owner string) ([]string, error)
	Save(ctx context.Context, owner string, ids []string) error
}

// MemoryStore keeps favorites for the lifetime of the process
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]string)}
}

func (m *MemoryStore) Load(_ context.Context, owner string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.data[owner]), nil
}

func (m *MemoryStore) Save(_ context.Context, owner string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(ids) == 0 {
		delete(m.data, owner)
		return nil
	}
	m.data[owner] = slices.Clone(ids)
	return nil
}

const redisKeyPrefix = "favorites:"

// RedisStore keeps each owner's favorites in a Redis list
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps lists forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreFromURL parses a redis:// URL and pings the server
func NewRedisStoreFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

func (r *RedisStore) key(owner string) string {
	return redisKeyPrefix + owner
}

func (r *RedisStore) Load(ctx context.Context, owner string) ([]string, error) {
	ids, err := r.client.LRange(ctx, r.key(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites for %s: %w", owner, err)
	}
	return ids, nil
}

func (r *RedisStore) Save(ctx context.Context, owner string, ids []string) error {
	key := r.key(owner)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) == 0 {
			return nil
		}
		values := make([]any, len(ids))
		for i, id := range ids {
			values[i] = id
		}
		pipe.RPush(ctx, key, values...)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save favorites for %s: %w", owner, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
