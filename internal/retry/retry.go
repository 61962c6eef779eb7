// Package retry provides retry with exponential backoff and jitter for
// upstream SDK calls
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int              // Maximum number of attempts
	InitialDelay    time.Duration    // Delay before the first retry
	MaxDelay        time.Duration    // Ceiling for backoff growth
	Multiplier      float64          // Backoff multiplier
	RandomizeFactor float64          // Jitter factor in [0, 1]
	RetryIf         func(error) bool // Predicate deciding retryability
}

// DefaultConfig returns the retry policy used for DEX API calls
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:     3,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		Multiplier:      2.0,
		RandomizeFactor: 0.2,
		RetryIf:         DefaultRetryIf,
	}
}

// Operation is a retryable unit of work
type Operation func(ctx context.Context) error

// Retrier executes operations under a retry policy
type Retrier struct {
	config *Config
}

// New creates a Retrier, normalizing degenerate config values
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	if config.RandomizeFactor < 0 {
		config.RandomizeFactor = 0
	} else if config.RandomizeFactor > 1 {
		config.RandomizeFactor = 1
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryIf
	}
	return &Retrier{config: config}
}

// Do runs op until it succeeds, exhausts attempts, is classified
// permanent, or the context ends.
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled before attempt %d: %w", attempt, err)
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.RetryIf(err) || attempt == r.config.MaxAttempts {
			break
		}

		select {
		case <-time.After(r.jitter(delay)):
			delay = r.next(delay)
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry delay: %w", ctx.Err())
		}
	}

	return lastErr
}

func (r *Retrier) jitter(delay time.Duration) time.Duration {
	if r.config.RandomizeFactor == 0 {
		return delay
	}
	delta := float64(delay) * r.config.RandomizeFactor
	return time.Duration(float64(delay) - delta + rand.Float64()*2*delta)
}

func (r *Retrier) next(current time.Duration) time.Duration {
	nextDelay := time.Duration(float64(current) * r.config.Multiplier)
	if nextDelay > r.config.MaxDelay {
		return r.config.MaxDelay
	}
	return nextDelay
}

// Do runs op with the default policy
func Do(ctx context.Context, op Operation) error {
	return New(DefaultConfig()).Do(ctx, op)
}

// TemporaryError marks an error as retryable
type TemporaryError struct {
	Err error
}

func (e *TemporaryError) Error() string { return fmt.Sprintf("temporary error: %v", e.Err) }
func (e *TemporaryError) Unwrap() error { return e.Err }

// Temporary implements the conventional temporary-error interface
func (e *TemporaryError) Temporary() bool { return true }

// PermanentError marks an error as not worth retrying
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("permanent error: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// Temporary marks a cause as retryable
func Temporary(err error) error {
	if err == nil {
		return nil
	}
	return &TemporaryError{Err: err}
}

// Permanent marks a cause as non-retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// DefaultRetryIf retries temporary errors, refuses permanent ones, and
// retries anything unclassified.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	var permErr *PermanentError
	if errors.As(err, &permErr) {
		return false
	}

	var tempErr *TemporaryError
	if errors.As(err, &tempErr) {
		return true
	}

	type temporary interface{ Temporary() bool }
	var te temporary
	if errors.As(err, &te) {
		return te.Temporary()
	}

	return true
}
