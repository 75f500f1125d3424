package providers

import (
	"sync"
	"time"
)

// UsageSnapshot is a point-in-time copy of the tracker counters.
type UsageSnapshot struct {
	Calls        int64         `json:"calls"`
	Errors       int64         `json:"errors"`
	RateLimits   int64         `json:"rate_limits"`
	InputTokens  int64         `json:"input_tokens"`
	OutputTokens int64         `json:"output_tokens"`
	TotalTime    time.Duration `json:"total_time"`
}

// UsageTracker accumulates per-run accounting for service calls. Every
// attempt counts, including retried ones, so the numbers reflect what the
// service actually saw.
type UsageTracker struct {
	mu   sync.Mutex
	snap UsageSnapshot
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

// RecordCall records one successful attempt.
func (u *UsageTracker) RecordCall(res *CompletionResult) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.snap.Calls++
	if res != nil {
		u.snap.InputTokens += res.InputTokens
		u.snap.OutputTokens += res.OutputTokens
		u.snap.TotalTime += res.Duration
	}
}

// RecordError records one failed attempt.
func (u *UsageTracker) RecordError() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.snap.Calls++
	u.snap.Errors++
}

// RecordRateLimit records one attempt rejected with a 429.
func (u *UsageTracker) RecordRateLimit() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.snap.Calls++
	u.snap.Errors++
	u.snap.RateLimits++
}

// Snapshot returns a copy of the current counters.
func (u *UsageTracker) Snapshot() UsageSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.snap
}

// Reset zeroes all counters.
func (u *UsageTracker) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.snap = UsageSnapshot{}
}
