package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewMemoryLimiter(3, time.Minute)
	defer func() { _ = limiter.Close() }()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "fp1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, i+1, result.Count)
		assert.Equal(t, 3-(i+1), result.Remaining)
	}

	result, err := limiter.Allow(ctx, "fp1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestMemoryLimiterIsolatesKeys(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Minute)
	defer func() { _ = limiter.Close() }()

	ctx := context.Background()
	first, err := limiter.Allow(ctx, "fp1")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	blocked, err := limiter.Allow(ctx, "fp1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := limiter.Allow(ctx, "fp2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	limiter := NewMemoryLimiter(1, 20*time.Millisecond)
	defer func() { _ = limiter.Close() }()

	ctx := context.Background()
	result, err := limiter.Allow(ctx, "fp1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "fp1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	time.Sleep(30 * time.Millisecond)

	result, err = limiter.Allow(ctx, "fp1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestParseScriptResult(t *testing.T) {
	resetMs := time.Now().Add(time.Minute).UnixMilli()
	result, err := parseScriptResult([]interface{}{int64(1), int64(2), resetMs}, 5)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, 3, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))

	_, err = parseScriptResult("garbage", 5)
	assert.Error(t, err)

	_, err = parseScriptResult([]interface{}{int64(1)}, 5)
	assert.Error(t, err)
}

func TestNewRedisLimiterValidation(t *testing.T) {
	_, err := NewRedisLimiter(nil, 0, time.Minute)
	assert.Error(t, err)

	_, err = NewRedisLimiter(nil, 10, 0)
	assert.Error(t, err)
}
