package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies a generative-service failure.
type ErrorKind string

const (
	// ErrKindRateLimited is an HTTP 429; retryable with backoff.
	ErrKindRateLimited ErrorKind = "rate_limited"

	// ErrKindAuthFailed is an HTTP 401/403; never retryable.
	ErrKindAuthFailed ErrorKind = "auth_failed"

	// ErrKindService is any other service failure.
	ErrKindService ErrorKind = "service_error"
)

// ServiceError is a classified failure from the generative-text boundary.
type ServiceError struct {
	Kind       ErrorKind
	Status     int
	Message    string
	RetryAfter time.Duration
}

func (e *ServiceError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ClassifyStatus builds a ServiceError from an HTTP status code.
func ClassifyStatus(status int, message string) *ServiceError {
	switch status {
	case http.StatusTooManyRequests:
		return &ServiceError{Kind: ErrKindRateLimited, Status: status, Message: message}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ServiceError{Kind: ErrKindAuthFailed, Status: status, Message: message}
	default:
		return &ServiceError{Kind: ErrKindService, Status: status, Message: message}
	}
}

// IsRateLimited reports whether err is a rate-limit failure.
func IsRateLimited(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == ErrKindRateLimited
}

// IsAuthFailed reports whether err is an authentication failure.
func IsAuthFailed(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == ErrKindAuthFailed
}

// parseRetryAfter reads a Retry-After header value in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
