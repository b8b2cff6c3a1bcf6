// Package testutil provides common test utilities for provider and store tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// RecordedRequest is a snapshot of a request received by a StubServer.
type RecordedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	RawQuery    string
	Header      http.Header
}

// StubServer is an httptest server that records every request it serves and
// answers through a swappable handler.
type StubServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	handler  http.HandlerFunc
}

// NewStubServer starts a server that delegates to handler. The server is
// closed when the test finishes.
func NewStubServer(t *testing.T, handler http.HandlerFunc) *StubServer {
	t.Helper()
	s := &StubServer{handler: handler}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *StubServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		EscapedPath: r.URL.EscapedPath(),
		RawQuery:    r.URL.RawQuery,
		Header:      r.Header.Clone(),
	})
	handler := s.handler
	s.mu.Unlock()
	handler(w, r)
}

// SetHandler replaces the response handler.
func (s *StubServer) SetHandler(handler http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Requests returns a copy of the requests served so far.
func (s *StubServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest{}, s.requests...)
}

// RequestCount returns how many requests were served.
func (s *StubServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// JSONResponse answers with status and body marshaled as JSON.
func JSONResponse(t *testing.T, status int, body any) http.HandlerFunc {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err, "failed to marshal response body")
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(payload)
	}
}

// TextResponse answers with status and a plain-text body.
func TextResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// StatusResponse answers with status, optional headers and no body.
func StatusResponse(status int, headers map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
	}
}
