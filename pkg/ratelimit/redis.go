package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = window in milliseconds
// Returns: [current_count, ttl_remaining_ms]
const fixedWindowScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`

// RedisLimiter shares counters between instances through Redis.
// The key's TTL is the window, so phasing per key matches MemoryLimiter.
type RedisLimiter struct {
	client redis.Scripter
	script *redis.Script
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client redis.Scripter, prefix string, limit int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:contact:"
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (r *RedisLimiter) Limit() int { return r.limit }

func (r *RedisLimiter) Window() time.Duration { return r.window }

func (r *RedisLimiter) Hit(ctx context.Context, key string) (Decision, error) {
	res, err := r.script.Run(ctx, r.client, []string{r.prefix + key}, r.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(res) < 2 {
		return Decision{}, fmt.Errorf("unexpected redis result format: %v", res)
	}

	count, ttl := res[0], res[1]
	resetAt := time.Now().Add(time.Duration(ttl) * time.Millisecond)

	return newDecision(int(count), r.limit, resetAt), nil
}
