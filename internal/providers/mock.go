package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	Err          error // Returned on every call when set
	FailFirst    int   // First N requests fail with Err (0 = none)
	ResponseText string
	ResponseFn   func(req *CompletionRequest, call int64) (string, error)

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Complete returns the configured response or failure.
func (c *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.FailFirst > 0 && count <= int64(c.FailFirst) {
		return nil, c.failure()
	}
	if c.FailFirst == 0 && c.Err != nil {
		return nil, c.Err
	}

	text := c.ResponseText
	if c.ResponseFn != nil {
		var err error
		text, err = c.ResponseFn(req, count)
		if err != nil {
			return nil, err
		}
	}

	var inputTokens int64
	if req != nil {
		inputTokens = int64(len(req.System)+len(req.User)) / 4
	}

	return &CompletionResult{
		Text:         text,
		Model:        "mock-model",
		InputTokens:  inputTokens,
		OutputTokens: int64(len(text)) / 4,
		Duration:     time.Since(start),
	}, nil
}

func (c *MockClient) failure() error {
	if c.Err != nil {
		return c.Err
	}
	return fmt.Errorf("mock client configured to fail")
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
}

// Verify interface
var _ Client = (*MockClient)(nil)
