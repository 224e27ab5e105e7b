package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"findash/internal/log"
)

func TestMiddleware_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf, JSON: true, Component: log.ComponentHTTP})

	var seen string
	h := NewMiddleware(logger, func(*http.Request) string { return "10.0.0.1" }).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
			if log.FromContext(r.Context()).Component() != log.ComponentHTTP {
				t.Errorf("request logger not installed")
			}
			w.WriteHeader(http.StatusTeapot)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/finance", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a uuid", seen)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("response header %q, want %q", got, seen)
	}
	out := buf.String()
	if !strings.Contains(out, `"status_code":418`) || !strings.Contains(out, seen) {
		t.Fatalf("completion log missing fields: %s", out)
	}
}

func TestMiddleware_KeepsValidIncomingID(t *testing.T) {
	m := NewMiddleware(nil, nil)
	id := uuid.NewString()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != id {
			t.Errorf("request id %q, want %q", got, id)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) == "not-a-uuid" {
		t.Fatal("invalid incoming id should be replaced")
	}

	if got := m.GetMetrics().TotalRequests; got != 2 {
		t.Fatalf("TotalRequests = %d, want 2", got)
	}
}
