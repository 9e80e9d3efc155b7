package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultRetryAttempts   = 5
	defaultRetryBaseDelay  = 1 * time.Second
	defaultRetryMultiplier = 2.0
	defaultRetryMaxDelay   = 30 * time.Second
)

// RetryPolicy describes a bounded retry schedule with exponential backoff.
// The zero value retries five times starting at one second and doubling,
// matching the image-generation backends' documented limits.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration

	// Sleep overrides how backoff waits are performed (useful for tests).
	Sleep func(time.Duration)
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultRetryAttempts,
		BaseDelay:   defaultRetryBaseDelay,
		Multiplier:  defaultRetryMultiplier,
		MaxDelay:    defaultRetryMaxDelay,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return defaultRetryAttempts
	}
	return p.MaxAttempts
}

// Delay returns the wait before the attempt following the given 1-based
// attempt number: base, base*m, base*m^2, ... capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = defaultRetryMultiplier
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}

	delay := base
	for i := 1; i < attempt; i++ {
		next := time.Duration(float64(delay) * multiplier)
		if next <= delay || next > maxDelay {
			return maxDelay
		}
		delay = next
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// Do runs fn until it succeeds or the attempt budget is exhausted. Context
// cancellation stops the loop immediately; all other failures are retried.
func (p RetryPolicy) Do(ctx context.Context, operation string, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	attempts := p.attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if err := p.wait(ctx, p.Delay(attempt)); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", operation, attempts, lastErr)
}

func (p RetryPolicy) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if p.Sleep != nil {
		p.Sleep(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
