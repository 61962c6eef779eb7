// Package ratelimit provides per-caller rate limiting with a sliding
// window algorithm, backed by Redis in multi-instance deployments and
// by process memory otherwise.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result represents the outcome of a rate limit check
type Result struct {
	Allowed    bool          `json:"allowed"`
	Count      int           `json:"count"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
	ResetTime  time.Time     `json:"reset_time"`
}

// Limiter checks whether a caller identified by key may proceed.
// Keys are token fingerprints, never raw tokens.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	Close() error
}

const keyPrefix = "dexmcp:ratelimit:"

// RedisLimiter implements Redis-backed sliding window rate limiting
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	script *redis.Script
}

// NewRedisLimiter creates a limiter on an existing Redis client
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) (*RedisLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}

	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		script: redis.NewScript(slidingWindowScript),
	}, nil
}

// Allow checks and records one request for the given key
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now().UnixMilli()

	raw, err := rl.script.Run(ctx, rl.client, []string{keyPrefix + key},
		rl.limit, rl.window.Milliseconds(), now).Result()
	if err != nil {
		return nil, fmt.Errorf("sliding window script failed: %w", err)
	}

	return parseScriptResult(raw, rl.limit)
}

// Close is a no-op; the Redis client is owned by the caller
func (rl *RedisLimiter) Close() error {
	return nil
}

func parseScriptResult(raw interface{}, limit int) (*Result, error) {
	values, ok := raw.([]interface{})
	if !ok || len(values) < 3 {
		return nil, fmt.Errorf("invalid script result format")
	}

	allowed, err := strconv.ParseBool(fmt.Sprintf("%v", values[0]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse allowed: %w", err)
	}
	count, err := strconv.Atoi(fmt.Sprintf("%v", values[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse count: %w", err)
	}
	resetTimeMs, err := strconv.ParseInt(fmt.Sprintf("%v", values[2]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reset time: %w", err)
	}

	resetTime := time.Unix(0, resetTimeMs*int64(time.Millisecond))
	retryAfter := time.Until(resetTime)
	if retryAfter < 0 {
		retryAfter = 0
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:    allowed,
		Count:      count,
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
		ResetTime:  resetTime,
	}, nil
}

const slidingWindowScript = `
-- Sliding window rate limiting
-- KEYS[1]: rate limit key
-- ARGV[1]: limit
-- ARGV[2]: window in milliseconds
-- ARGV[3]: current time in milliseconds

local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local current = redis.call('ZCARD', key)
local allowed = current < limit

if allowed then
    redis.call('ZADD', key, now, now .. ':' .. math.random())
    current = current + 1
    redis.call('EXPIRE', key, math.ceil(window / 1000))
end

local resetTime = now + window

return {allowed and 1 or 0, current, resetTime}
`

// MemoryLimiter is a sliding window limiter held in process memory.
// Used when Redis is disabled; limits are then per instance.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
}

// NewMemoryLimiter creates an in-memory sliding window limiter
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

// Allow checks and records one request for the given key
func (ml *MemoryLimiter) Allow(_ context.Context, key string) (*Result, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-ml.window)

	kept := ml.buckets[key][:0]
	for _, ts := range ml.buckets[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	allowed := len(kept) < ml.limit
	if allowed {
		kept = append(kept, now)
	}
	ml.buckets[key] = kept

	var resetTime time.Time
	if len(kept) > 0 {
		resetTime = kept[0].Add(ml.window)
	} else {
		resetTime = now.Add(ml.window)
	}
	retryAfter := time.Until(resetTime)
	if retryAfter < 0 {
		retryAfter = 0
	}

	remaining := ml.limit - len(kept)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:    allowed,
		Count:      len(kept),
		Limit:      ml.limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
		ResetTime:  resetTime,
	}, nil
}

// Close releases all tracked buckets
func (ml *MemoryLimiter) Close() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	ml.buckets = make(map[string][]time.Time)
	return nil
}
