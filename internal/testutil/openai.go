// Package testutil provides a fake OpenAI-compatible API server for
// exercising the provider client without network access.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// CompletionServer serves the subset of the OpenAI chat API the provider
// client uses. Zero value behavior: every completion succeeds with
// ResponseText and fixed token counts.
type CompletionServer struct {
	ResponseText string
	Model        string

	// Status forces an error status on every completion request.
	Status int
	// FailFirst fails the first N completion requests with Status.
	FailFirst int
	// RetryAfter is sent as the Retry-After header on error responses.
	RetryAfter string

	mu       sync.Mutex
	requests int
	server   *httptest.Server
}

// Start brings up the test server. Callers must Close it.
func (s *CompletionServer) Start() *httptest.Server {
	if s.ResponseText == "" {
		s.ResponseText = "ok"
	}
	if s.Model == "" {
		s.Model = "gpt-4o-mini"
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s.server
}

// URL returns the base URL of the running server.
func (s *CompletionServer) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *CompletionServer) Close() {
	s.server.Close()
}

// Requests returns how many completion requests were received.
func (s *CompletionServer) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *CompletionServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/chat/completions"):
		s.handleCompletion(w, r)
	case strings.HasSuffix(r.URL.Path, "/models"):
		s.handleModels(w)
	default:
		http.NotFound(w, r)
	}
}

func (s *CompletionServer) handleCompletion(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.requests++
	n := s.requests
	s.mu.Unlock()

	if s.Status != 0 && (s.FailFirst == 0 || n <= s.FailFirst) {
		s.writeError(w, s.Status)
		return
	}

	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   s.Model,
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": s.ResponseText,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     120,
			"completion_tokens": 48,
			"total_tokens":      168,
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *CompletionServer) handleModels(w http.ResponseWriter) {
	resp := map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": s.Model, "object": "model", "created": 1700000000, "owned_by": "system"},
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *CompletionServer) writeError(w http.ResponseWriter, status int) {
	if s.RetryAfter != "" {
		w.Header().Set("Retry-After", s.RetryAfter)
	}
	body := map[string]any{
		"error": map[string]any{
			"message": http.StatusText(status),
			"type":    "test_error",
		},
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
