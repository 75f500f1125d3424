package providers

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows initial requests", func(t *testing.T) {
		limiter := NewRateLimiter(600)

		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("request %d failed: %v", i, err)
			}
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("took too long: %v", elapsed)
		}
	})

	t.Run("status", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		status := limiter.Status()
		if status.TokensLimit != 60 {
			t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
		}
		if status.TokensAvailable <= 0 {
			t.Error("expected positive tokens available")
		}
	})

	t.Run("record 429 drains the bucket", func(t *testing.T) {
		limiter := NewRateLimiter(60)

		limiter.Record429()

		status := limiter.Status()
		if status.Last429Time.IsZero() {
			t.Error("Last429Time should be set")
		}
	})

	t.Run("set rate retunes capacity", func(t *testing.T) {
		limiter := NewRateLimiter(600)

		limiter.SetRate(10)
		status := limiter.Status()
		if status.TokensLimit != 10 {
			t.Errorf("TokensLimit = %d, want 10", status.TokensLimit)
		}
		if status.TokensAvailable > 10 {
			t.Errorf("TokensAvailable = %d, want clamped to 10", status.TokensAvailable)
		}

		// Non-positive rates fall back to the default.
		limiter.SetRate(0)
		if got := limiter.Status().TokensLimit; got != 60 {
			t.Errorf("TokensLimit after SetRate(0) = %d, want 60", got)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(1)

		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("first Wait() error = %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := limiter.Wait(ctx); err == nil {
			t.Error("Wait() after cancel should fail")
		}
	})
}
