package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := New(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTemporary(t *testing.T) {
	calls := 0
	err := New(fastConfig(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return Temporary(errors.New("flaky"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	permanent := Permanent(errors.New("bad request"))
	err := New(fastConfig(5)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, permanent)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := New(fastConfig(4)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("always fails")
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(fastConfig(3)).Do(ctx, func(ctx context.Context) error {
		return errors.New("should not matter")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultRetryIf(t *testing.T) {
	assert.False(t, DefaultRetryIf(nil))
	assert.True(t, DefaultRetryIf(Temporary(errors.New("x"))))
	assert.False(t, DefaultRetryIf(Permanent(errors.New("x"))))
	assert.True(t, DefaultRetryIf(errors.New("unclassified")))
}

func TestNewNormalizesConfig(t *testing.T) {
	r := New(&Config{MaxAttempts: 0, Multiplier: 0.5, RandomizeFactor: 2})
	assert.Equal(t, 1, r.config.MaxAttempts)
	assert.Equal(t, 1.0, r.config.Multiplier)
	assert.Equal(t, 1.0, r.config.RandomizeFactor)
	assert.NotNil(t, r.config.RetryIf)
}
