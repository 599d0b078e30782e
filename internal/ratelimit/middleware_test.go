package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiter struct {
	allowed   bool
	remaining int
	err       error
}

func (s stubLimiter) Allow(_ context.Context, _ string, _ time.Duration, _ int) (bool, int, time.Time, error) {
	return s.allowed, s.remaining, time.Now().Add(time.Minute), s.err
}

func serve(h Handler) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestAllowedRequestPassesThrough(t *testing.T) {
	h := Handler{
		Limiter: stubLimiter{allowed: true, remaining: 9},
		Config:  Config{Key: func(*http.Request) string { return "k" }, Window: time.Minute, Max: 10},
	}
	rec := serve(h)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "9" {
		t.Fatalf("unexpected remaining header %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestBlockedRequestGets429(t *testing.T) {
	h := Handler{
		Limiter: stubLimiter{allowed: false},
		Config:  Config{Key: func(*http.Request) string { return "k" }, Window: time.Minute, Max: 10},
	}
	rec := serve(h)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
}

func TestLimiterErrorFailsOpen(t *testing.T) {
	var reported error
	h := Handler{
		Limiter: stubLimiter{err: errors.New("store down")},
		Config:  Config{Key: func(*http.Request) string { return "k" }, Window: time.Minute, Max: 10},
		OnError: func(err error) { reported = err },
	}
	rec := serve(h)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on limiter error, got %d", rec.Code)
	}
	if reported == nil {
		t.Fatal("expected the error to be reported")
	}
}

func TestMemoryLimiterCountsDown(t *testing.T) {
	m := NewMemoryLimiter()
	ctx := context.Background()

	allowed, remaining, _, err := m.Allow(ctx, "key", time.Minute, 2)
	if err != nil || !allowed || remaining != 1 {
		t.Fatalf("first call: allowed=%v remaining=%d err=%v", allowed, remaining, err)
	}
	allowed, _, _, err = m.Allow(ctx, "key", time.Minute, 2)
	if err != nil || !allowed {
		t.Fatalf("second call: allowed=%v err=%v", allowed, err)
	}
	allowed, _, _, err = m.Allow(ctx, "key", time.Minute, 2)
	if err != nil || allowed {
		t.Fatalf("third call should be blocked: allowed=%v err=%v", allowed, err)
	}
}
