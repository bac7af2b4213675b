package infra

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FarmLocker serializes money-critical operations per (usuario, finca).
// TryLock is non-blocking: callers that lose the race report a conflict
// instead of queuing, so a slow settlement can never pile up writers.
type FarmLocker interface {
	// TryLock acquires the lease for key. Returns false when another
	// holder has it. The returned release func is safe to call once.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, func(), error)
}

// RedisFarmLocker implements the lease with SET NX PX. The TTL bounds
// how long a crashed holder can block the farm.
type RedisFarmLocker struct {
	rdb *redis.Client
}

func NewRedisFarmLocker(rdb *redis.Client) *RedisFarmLocker {
	return &RedisFarmLocker{rdb: rdb}
}

// releaseLockScript deletes the lease only when the stored token still
// matches: a release that arrives after the TTL expired must not take a
// successor's lease with it.
var releaseLockScript = redis.NewScript(
	`if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) end return 0`)

func (l *RedisFarmLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, "lock:"+key, token, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}
	release := func() {
		// Best-effort: the TTL is the real safety net.
		_ = releaseLockScript.Run(context.Background(), l.rdb, []string{"lock:" + key}, token).Err()
	}
	return true, release, nil
}

// MemoryFarmLocker is the single-instance fallback used when no Redis
// is configured (and in tests).
type MemoryFarmLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryFarmLocker() *MemoryFarmLocker {
	return &MemoryFarmLocker{held: make(map[string]struct{})}
}

func (l *MemoryFarmLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return false, nil, nil
	}
	l.held[key] = struct{}{}
	release := func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}
	return true, release, nil
}
