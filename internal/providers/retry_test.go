package providers

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		RateLimitBase:  time.Millisecond,
		TransientDelay: time.Millisecond,
	}
}

func TestRetryingClientRateLimitRecovers(t *testing.T) {
	mock := NewMockClient()
	mock.FailFirst = 2
	mock.Err = &ServiceError{Kind: ErrKindRateLimited, Status: http.StatusTooManyRequests, Message: "slow down"}

	usage := NewUsageTracker()
	client := NewRetryingClient(mock, fastPolicy(), usage, nil, nil)

	res, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != "mock response" {
		t.Errorf("Complete() text = %q", res.Text)
	}
	if got := mock.RequestCount(); got != 3 {
		t.Errorf("request count = %d, want 3", got)
	}

	snap := usage.Snapshot()
	if snap.Calls != 3 || snap.RateLimits != 2 || snap.Errors != 2 {
		t.Errorf("usage = %+v, want calls=3 rate_limits=2 errors=2", snap)
	}
}

func TestRetryingClientRateLimitExhaustsAttempts(t *testing.T) {
	mock := NewMockClient()
	mock.Err = &ServiceError{Kind: ErrKindRateLimited, Status: http.StatusTooManyRequests, Message: "slow down"}

	client := NewRetryingClient(mock, fastPolicy(), nil, nil, nil)

	_, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if err == nil {
		t.Fatalf("Complete() error = nil, want rate-limit failure")
	}
	if !IsRateLimited(err) {
		t.Errorf("Complete() error = %v, want rate-limited", err)
	}
	if got := mock.RequestCount(); got != 3 {
		t.Errorf("request count = %d, want 3", got)
	}
}

func TestRetryingClientAuthFailsFast(t *testing.T) {
	mock := NewMockClient()
	mock.Err = &ServiceError{Kind: ErrKindAuthFailed, Status: http.StatusUnauthorized, Message: "bad key"}

	client := NewRetryingClient(mock, fastPolicy(), nil, nil, nil)

	_, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if !IsAuthFailed(err) {
		t.Fatalf("Complete() error = %v, want auth failure", err)
	}
	if got := mock.RequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (no retries on auth failure)", got)
	}
}

func TestRetryingClientTransientRetriesOnce(t *testing.T) {
	mock := NewMockClient()
	mock.Err = &ServiceError{Kind: ErrKindService, Status: http.StatusInternalServerError, Message: "boom"}

	client := NewRetryingClient(mock, fastPolicy(), nil, nil, nil)

	_, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if err == nil {
		t.Fatalf("Complete() error = nil, want service failure")
	}
	if got := mock.RequestCount(); got != 2 {
		t.Errorf("request count = %d, want 2 (exactly one transient retry)", got)
	}
}

func TestRetryingClientTransientThenSuccess(t *testing.T) {
	mock := NewMockClient()
	mock.FailFirst = 1
	mock.Err = &ServiceError{Kind: ErrKindService, Status: http.StatusBadGateway, Message: "hiccup"}

	usage := NewUsageTracker()
	client := NewRetryingClient(mock, fastPolicy(), usage, nil, nil)

	if _, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	snap := usage.Snapshot()
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Errorf("usage = %+v, want calls=2 errors=1", snap)
	}
}

func TestRetryingClientContextCancel(t *testing.T) {
	mock := NewMockClient()
	mock.Err = &ServiceError{Kind: ErrKindService, Message: "boom"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewRetryingClient(mock, fastPolicy(), nil, nil, nil)
	if _, err := client.Complete(ctx, &CompletionRequest{User: "hello"}); err == nil {
		t.Fatalf("Complete() error = nil, want context error")
	}
	if got := mock.RequestCount(); got > 1 {
		t.Errorf("request count = %d, want at most 1 after cancel", got)
	}
}
