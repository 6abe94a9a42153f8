package grader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var errMaxAttemptsInvalid = errors.New("max attempts must be greater than 0")

// Backoff returns the delay to wait after the given failed attempt (1-based).
type Backoff func(attempt int) time.Duration

// FixedBackoff waits the same delay after every failed attempt.
func FixedBackoff(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// RetryPolicy bounds how often a scoring call is tried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     Backoff
	// AttemptTimeout bounds each attempt. Zero leaves attempts unbounded.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy tries three times, two seconds apart, for at most a
// minute each.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		Backoff:        FixedBackoff(2 * time.Second),
		AttemptTimeout: 60 * time.Second,
	}
}

// Validate checks the policy can make at least one attempt.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts <= 0 {
		return fmt.Errorf("%w, got %d", errMaxAttemptsInvalid, p.MaxAttempts)
	}
	if p.AttemptTimeout < 0 {
		return fmt.Errorf("attempt timeout must not be negative, got %s", p.AttemptTimeout)
	}
	return nil
}

// Do calls fn until it succeeds or MaxAttempts is reached and returns the last
// error. Each attempt gets its own context limited by AttemptTimeout. The
// logger handed to fn carries the attempt number. No delay follows the final
// attempt; a cancelled context stops the wait early.
func (p RetryPolicy) Do(ctx context.Context, logger *zap.Logger, fn func(ctx context.Context, logger *zap.Logger) error) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptLogger := logger.With(zap.Int("attempt", attempt), zap.Int("max_attempts", p.MaxAttempts))

		lastErr = p.attempt(ctx, attemptLogger, fn)
		if lastErr == nil {
			return nil
		}
		attemptLogger.Warn("scoring attempt failed", zap.Error(lastErr))

		if attempt == p.MaxAttempts {
			break
		}
		if err := p.wait(ctx, attempt); err != nil {
			return fmt.Errorf("retry aborted after attempt %d: %w", attempt, errors.Join(lastErr, err))
		}
	}
	return lastErr
}

func (p RetryPolicy) attempt(ctx context.Context, logger *zap.Logger, fn func(ctx context.Context, logger *zap.Logger) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx, logger)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx, logger)
}

func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	var d time.Duration
	if p.Backoff != nil {
		d = p.Backoff(attempt)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
