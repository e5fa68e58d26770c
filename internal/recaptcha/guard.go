package recaptcha

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard remembers spent tokens.  Claim returns true the first time it sees
// a token and false afterwards.
type Guard interface {
	Claim(ctx context.Context, token string) (bool, error)
}

// NewGuard picks the Redis guard when a client is available and the
// in-memory one otherwise.
func NewGuard(rdb *redis.Client, ttl time.Duration) Guard {
	if rdb == nil {
		return NewMemoryGuard(ttl)
	}
	return &RedisGuard{rdb: rdb, ttl: ttl, prefix: "omys:captcha"}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RedisGuard shares spent tokens between instances with SETNX.
type RedisGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func (g *RedisGuard) Claim(ctx context.Context, token string) (bool, error) {
	return g.rdb.SetNX(ctx, g.prefix+":"+tokenKey(token), 1, g.ttl).Result()
}

// MemoryGuard keeps spent tokens in process until they expire.
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryGuard) Claim(_ context.Context, token string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.seen {
		if now.After(exp) {
			delete(g.seen, k)
		}
	}
	key := tokenKey(token)
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = now.Add(g.ttl)
	return true, nil
}
