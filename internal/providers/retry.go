package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryPolicy controls how RetryingClient reacts to classified failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, first call included.
	MaxAttempts uint

	// RateLimitBase seeds the exponential backoff for 429s; the wait
	// doubles on each retry starting at 2*RateLimitBase.
	RateLimitBase time.Duration

	// TransientDelay is the single pause before the one retry a
	// transient service error gets.
	TransientDelay time.Duration
}

// DefaultRetryPolicy returns the policy used by the analysis phases.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		RateLimitBase:  time.Second,
		TransientDelay: 500 * time.Millisecond,
	}
}

// RetryingClient wraps a Client with the shared retry policy:
// auth failures surface immediately, rate limits back off exponentially,
// and any other failure gets exactly one quick retry.
type RetryingClient struct {
	inner   Client
	policy  RetryPolicy
	usage   *UsageTracker
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewRetryingClient wraps inner with policy. The tracker and limiter are
// optional; pass nil to disable either.
func NewRetryingClient(inner Client, policy RetryPolicy, usage *UsageTracker, limiter *RateLimiter, logger *slog.Logger) *RetryingClient {
	if policy.MaxAttempts == 0 {
		policy = DefaultRetryPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryingClient{
		inner:   inner,
		policy:  policy,
		usage:   usage,
		limiter: limiter,
		logger:  logger,
	}
}

// Name returns the wrapped client's identifier.
func (c *RetryingClient) Name() string {
	return c.inner.Name()
}

// Usage returns the tracker, or nil when accounting is disabled.
func (c *RetryingClient) Usage() *UsageTracker {
	return c.usage
}

// Complete calls the wrapped client, retrying per the policy.
func (c *RetryingClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	var result *CompletionResult
	transientRetried := false

	err := retry.Do(
		func() error {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return err
				}
			}

			res, err := c.inner.Complete(ctx, req)
			if err != nil {
				c.recordFailure(err)
				return err
			}
			c.recordSuccess(res)
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.policy.MaxAttempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false
			}
			if IsAuthFailed(err) {
				return false
			}
			if IsRateLimited(err) {
				return true
			}
			// Anything else gets exactly one retry.
			if transientRetried {
				return false
			}
			transientRetried = true
			return true
		}),
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			if IsRateLimited(err) {
				wait := c.policy.RateLimitBase << (n + 1)
				var se *ServiceError
				if errors.As(err, &se) && se.RetryAfter > wait {
					wait = se.RetryAfter
				}
				c.logger.Warn("rate limited, backing off",
					"provider", c.inner.Name(),
					"attempt", n+1,
					"wait", wait)
				return wait
			}
			c.logger.Warn("transient service error, retrying once",
				"provider", c.inner.Name(),
				"error", err)
			return c.policy.TransientDelay
		}),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *RetryingClient) recordSuccess(res *CompletionResult) {
	if c.usage == nil {
		return
	}
	c.usage.RecordCall(res)
}

func (c *RetryingClient) recordFailure(err error) {
	if IsRateLimited(err) {
		if c.limiter != nil {
			c.limiter.Record429()
		}
		if c.usage != nil {
			c.usage.RecordRateLimit()
		}
		return
	}
	if c.usage != nil {
		c.usage.RecordError()
	}
}

var _ Client = (*RetryingClient)(nil)
