package providers

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusTooManyRequests, ErrKindRateLimited},
		{http.StatusUnauthorized, ErrKindAuthFailed},
		{http.StatusForbidden, ErrKindAuthFailed},
		{http.StatusInternalServerError, ErrKindService},
		{http.StatusBadGateway, ErrKindService},
	}
	for _, tt := range tests {
		if got := ClassifyStatus(tt.status, "x").Kind; got != tt.want {
			t.Errorf("ClassifyStatus(%d) kind = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestErrorPredicatesUnwrap(t *testing.T) {
	rateLimited := fmt.Errorf("phase scenes: %w", ClassifyStatus(429, "slow down"))
	if !IsRateLimited(rateLimited) {
		t.Errorf("IsRateLimited() = false for wrapped 429")
	}
	if IsAuthFailed(rateLimited) {
		t.Errorf("IsAuthFailed() = true for wrapped 429")
	}

	auth := fmt.Errorf("connect: %w", ClassifyStatus(401, "bad key"))
	if !IsAuthFailed(auth) {
		t.Errorf("IsAuthFailed() = false for wrapped 401")
	}
	if IsRateLimited(fmt.Errorf("plain")) {
		t.Errorf("IsRateLimited() = true for unclassified error")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("30"); got != 30*time.Second {
		t.Errorf("parseRetryAfter(30) = %v", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("parseRetryAfter(empty) = %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Errorf("parseRetryAfter(non-numeric) = %v", got)
	}
}
