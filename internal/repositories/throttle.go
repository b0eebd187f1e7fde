package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/config"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
)

const throttleKeyPrefix = "throttle:"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// RedisThrottle remembers a key for Window using SET NX, so it holds across
// several API instances.
type RedisThrottle struct {
	Client redis.Cmdable
	Window time.Duration
}

func (t RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := t.Client.SetNX(ctx, throttleKeyPrefix+normalizeKey(key), time.Now().UTC().Unix(), t.Window).Result()
	if err != nil {
		return false, domain.DependencyError{Dependency: "redis", Op: "setnx", Err: err}
	}
	return ok, nil
}

// MemoryThrottle is the single-process fallback used when Redis is not
// configured.
type MemoryThrottle struct {
	Window time.Duration
	Now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryThrottle(window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{Window: window, Now: time.Now, seen: map[string]time.Time{}}
}

func (t *MemoryThrottle) Allow(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.Now()
	for k, until := range t.seen {
		if !now.Before(until) {
			delete(t.seen, k)
		}
	}

	key = normalizeKey(key)
	if _, held := t.seen[key]; held {
		return false, nil
	}
	t.seen[key] = now.Add(t.Window)
	return true, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
