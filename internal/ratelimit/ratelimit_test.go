package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPAllowBurst(t *testing.T) {
	rl := NewHTTP(Config{RequestsPerSecond: 1, Burst: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst was rejected", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request beyond burst should have been rejected")
	}
}

func TestHTTPAllowPerIPIsolated(t *testing.T) {
	rl := NewHTTP(Config{RequestsPerSecond: 1, Burst: 1})
	defer rl.Stop()

	if !rl.Allow("1.1.1.1") {
		t.Fatal("first request from 1.1.1.1 should be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("a different IP must not share the first IP's bucket")
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	rl := NewHTTP(Config{RequestsPerSecond: 1, Burst: 1})
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got status %d, want 429", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "5.6.7.8, 10.0.0.1")

	if got := ClientIP(req); got != "5.6.7.8" {
		t.Fatalf("ClientIP = %q, want 5.6.7.8", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:9999"

	if got := ClientIP(req); got != "10.0.0.2" {
		t.Fatalf("ClientIP = %q, want 10.0.0.2", got)
	}
}

func TestWebSocketLimiterCapsConnections(t *testing.T) {
	wrl := NewWebSocket(2)

	if !wrl.Allow("1.1.1.1") || !wrl.Allow("1.1.1.1") {
		t.Fatal("expected first two connections to be allowed")
	}
	if wrl.Allow("1.1.1.1") {
		t.Fatal("third connection should have been rejected")
	}

	wrl.Release("1.1.1.1")
	if !wrl.Allow("1.1.1.1") {
		t.Fatal("expected a freed slot to be reusable")
	}
}

func TestCleanupLoopEvictsStaleEntries(t *testing.T) {
	rl := NewHTTP(Config{RequestsPerSecond: 1, Burst: 1, CleanupInterval: 20 * time.Millisecond})
	defer rl.Stop()

	rl.Allow("3.3.3.3")
	if _, ok := rl.limiters.Load("3.3.3.3"); !ok {
		t.Fatal("expected an entry to exist immediately after Allow")
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok := rl.limiters.Load("3.3.3.3"); ok {
		t.Fatal("expected cleanupLoop to evict a stale entry")
	}
}
