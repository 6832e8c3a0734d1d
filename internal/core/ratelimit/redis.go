package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingLogScript implements a sliding-log rate limit over a sorted set of
// event timestamps (milliseconds). Runs as a single script so concurrent
// checks against the same key cannot both slip under the limit.
//
// KEYS[1] = counter key
// ARGV[1] = now (ms), ARGV[2] = window (ms), ARGV[3] = limit, ARGV[4] = member
// Returns {allowed, remaining, oldest event timestamp (ms, as string)}
var slidingLogScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
	local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
	return {0, 0, oldest[2]}
end

redis.call("ZADD", key, now, ARGV[4])
redis.call("PEXPIRE", key, window)
return {1, limit - count - 1, tostring(now)}
`)

// RedisLimiter is a sliding-window limiter backed by Redis.
// Counters live in Redis, so the window is shared across all server
// instances rather than per-process.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisLimiter creates a limiter allowing `limit` operations per `window`
// for each subject key.
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow checks and consumes one operation for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()

	raw, err := slidingLogScript.Run(ctx, l.rdb,
		[]string{l.prefix + key},
		now.UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		// Unique member so same-millisecond events are all counted
		fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()),
	).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	vals, ok := raw.([]interface{})
	if !ok || len(vals) != 3 {
		return Result{}, fmt.Errorf("rate limit check failed: unexpected script reply %v", raw)
	}

	allowed, _ := vals[0].(int64)
	remaining, _ := vals[1].(int64)

	oldestMs := now.UnixMilli()
	if s, ok := vals[2].(string); ok {
		if parsed, perr := strconv.ParseFloat(s, 64); perr == nil {
			oldestMs = int64(parsed)
		}
	}

	return Result{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		Reset:     time.UnixMilli(oldestMs).Add(l.window),
	}, nil
}
