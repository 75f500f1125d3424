// Package providers holds the clients and helpers for the generative-text
// services that power the analysis phases. Every client implements the
// Client interface; RetryingClient wraps any of them with the shared
// retry and backoff policy.
package providers

import (
	"context"
	"time"
)

// CompletionRequest is a single prompt sent to a generative-text service.
type CompletionRequest struct {
	System      string
	User        string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// CompletionResult is the service's reply plus accounting metadata.
type CompletionResult struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
	Duration     time.Duration
}

// Client is the boundary to a generative-text service. Implementations
// return *ServiceError for classified failures so callers can branch on
// IsRateLimited / IsAuthFailed.
type Client interface {
	// Complete sends one prompt and returns the full text reply.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// Name identifies the backing service for logs and usage records.
	Name() string
}
