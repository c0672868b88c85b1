package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("request ID not set in context")
	}
	if got := rr.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header = %q, context = %q", got, seen)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "upstream-id" {
		t.Errorf("context request ID = %q, want upstream-id", seen)
	}
	if got := rr.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Errorf("response header = %q, want upstream-id", got)
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}
