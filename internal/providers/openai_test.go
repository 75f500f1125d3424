package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onsetlabs/slate/internal/testutil"
)

func TestOpenAIClientComplete(t *testing.T) {
	srv := &testutil.CompletionServer{ResponseText: `{"scenes": []}`, Model: "gpt-4o-mini"}
	srv.Start()
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL(),
	})

	res, err := client.Complete(context.Background(), &CompletionRequest{
		System: "You are a scene analyst.",
		User:   "Summarize scenes.",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != `{"scenes": []}` {
		t.Errorf("Text = %q, want response body", res.Text)
	}
	if res.InputTokens != 120 || res.OutputTokens != 48 {
		t.Errorf("tokens = %d/%d, want 120/48", res.InputTokens, res.OutputTokens)
	}
	if res.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", res.Model)
	}
	if srv.Requests() != 1 {
		t.Errorf("Requests() = %d, want 1", srv.Requests())
	}
}

func TestOpenAIClientEmptyUser(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key"})
	if _, err := client.Complete(context.Background(), &CompletionRequest{System: "sys"}); err == nil {
		t.Fatal("expected error for empty user prompt")
	}
}

func TestOpenAIClientRateLimitMapping(t *testing.T) {
	srv := &testutil.CompletionServer{Status: 429, RetryAfter: "7"}
	srv.Start()
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL()})

	_, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	if !IsRateLimited(err) {
		t.Fatalf("IsRateLimited(%v) = false, want true", err)
	}

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a ServiceError", err)
	}
	if se.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", se.RetryAfter)
	}
}

func TestOpenAIClientAuthMapping(t *testing.T) {
	srv := &testutil.CompletionServer{Status: 401}
	srv.Start()
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "bad-key", BaseURL: srv.URL()})

	_, err := client.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if err == nil {
		t.Fatal("expected auth error")
	}
	if !IsAuthFailed(err) {
		t.Errorf("IsAuthFailed(%v) = false, want true", err)
	}
}

func TestOpenAIClientHealthCheck(t *testing.T) {
	srv := &testutil.CompletionServer{}
	srv.Start()
	defer srv.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL()})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
}

func TestRetryingClientAgainstServer(t *testing.T) {
	srv := &testutil.CompletionServer{Status: 500, FailFirst: 1, ResponseText: "recovered"}
	srv.Start()
	defer srv.Close()

	inner := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL()})
	rc := NewRetryingClient(inner, RetryPolicy{
		MaxAttempts:    3,
		RateLimitBase:  time.Millisecond,
		TransientDelay: time.Millisecond,
	}, NewUsageTracker(), nil, nil)

	res, err := rc.Complete(context.Background(), &CompletionRequest{User: "hello"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res.Text != "recovered" {
		t.Errorf("Text = %q, want %q", res.Text, "recovered")
	}
	if srv.Requests() != 2 {
		t.Errorf("Requests() = %d, want 2 (one failure, one retry)", srv.Requests())
	}

	snap := rc.Usage().Snapshot()
	if snap.Calls != 1 || snap.Errors != 1 {
		t.Errorf("usage = %d calls / %d errors, want 1/1", snap.Calls, snap.Errors)
	}
}
