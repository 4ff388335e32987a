package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates JWTs before their natural expiry (sign-out).
type TokenBlacklist interface {
	// Add records a token id as revoked for the remaining token lifetime.
	Add(ctx context.Context, jti string, ttl time.Duration) error
	// Contains reports whether a token id has been revoked.
	Contains(ctx context.Context, jti string) (bool, error)
}

// RedisBlacklist stores revoked token ids in redis with a TTL.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlacklist connects to redis and verifies the connection.
func NewRedisBlacklist(ctx context.Context, addr string) (*RedisBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisBlacklist{client: client, prefix: "token:blacklist:"}, nil
}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

// MemoryBlacklist is a process-local fallback used when no redis address is
// configured, and in tests. Entries are dropped lazily once expired.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryBlacklist creates an empty in-process blacklist.
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = time.Now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	deadline, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		delete(b.entries, jti)
		return false, nil
	}
	return true, nil
}
