package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testRetry(maxAttempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		Logger:      zap.NewNop(),
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := testRetry(5).Do(context.Background(), "flaky op", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d; want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := testRetry(3).Do(context.Background(), "doomed op", func() error {
		attempts++
		return errors.New("still locked")
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d; want 3", attempts)
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := testRetry(5).Do(ctx, "canceled op", func() error {
		attempts++
		return errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d; want 1 (no retries after cancellation)", attempts)
	}
}
