package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetryDoSucceedsAfterFailures(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Multiplier:  2,
		MaxDelay:    30 * time.Second,
		Sleep:       func(d time.Duration) { delays = append(delays, d) },
	}

	calls := 0
	err := policy.Do(context.Background(), "fetch", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("backoff delays = %v", delays)
	}
}

func TestRetryDoExhaustsAttempts(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Multiplier:  2,
		Sleep:       func(time.Duration) {},
	}

	calls := 0
	boom := errors.New("boom")
	err := policy.Do(context.Background(), "fetch", func(context.Context) error {
		calls++
		return boom
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 5 {
		t.Fatalf("calls = %d, want 5", calls)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("final error should wrap the last failure: %v", err)
	}
	if !strings.Contains(err.Error(), "failed after 5 attempts") {
		t.Fatalf("error = %v", err)
	}
}

func TestRetryDoStopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 5, Sleep: func(time.Duration) {}}

	calls := 0
	err := policy.Do(ctx, "fetch", func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryDoReturnsCancellationFromFn(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Sleep: func(time.Duration) {}}
	calls := 0
	err := policy.Do(context.Background(), "fetch", func(context.Context) error {
		calls++
		return context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("cancellation must not be retried, calls = %d", calls)
	}
}

func TestRetryDelaySchedule(t *testing.T) {
	policy := DefaultRetryPolicy()
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, expected := range want {
		if got := policy.Delay(i + 1); got != expected {
			t.Fatalf("Delay(%d) = %v, want %v", i+1, got, expected)
		}
	}
}

func TestRetryZeroValueUsesDefaults(t *testing.T) {
	var policy RetryPolicy
	policy.Sleep = func(time.Duration) {}
	calls := 0
	_ = policy.Do(context.Background(), "fetch", func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if calls != 5 {
		t.Fatalf("zero-value policy should attempt 5 times, got %d", calls)
	}
}
