// Package ratelimit provides per-IP HTTP and WebSocket connection
// limiting, adapted from the teacher's internal/api/ratelimit.go: the
// golang.org/x/time/rate-backed IPRateLimiter survives unchanged in
// spirit, generalized to sit in front of the six dispatcher endpoints
// instead of the teacher's player/stream routes.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config configures the HTTP rate limiter.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
}

// entry tracks per-IP limiter state.
type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// HTTP is an IP-keyed token-bucket rate limiter for HTTP requests.
type HTTP struct {
	limiters sync.Map // map[string]*entry
	cfg      Config
	stopChan chan struct{}
	stopOnce sync.Once

	rejected atomic.Uint64
	allowed  atomic.Uint64
}

// NewHTTP constructs an HTTP limiter and starts its background cleanup.
func NewHTTP(cfg Config) *HTTP {
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	rl := &HTTP{cfg: cfg, stopChan: make(chan struct{})}
	go rl.cleanupLoop()
	return rl
}

func (rl *HTTP) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *HTTP) getLimiter(ip string) *rate.Limiter {
	now := time.Now()
	if v, ok := rl.limiters.Load(ip); ok {
		e := v.(*entry)
		e.lastSeen = now
		return e.limiter
	}
	e := &entry{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst), lastSeen: now}
	actual, _ := rl.limiters.LoadOrStore(ip, e)
	return actual.(*entry).limiter
}

func (rl *HTTP) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.cfg.CleanupInterval * 2)
			rl.limiters.Range(func(key, value any) bool {
				if value.(*entry).lastSeen.Before(cutoff) {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

// Allow reports whether a request from ip may proceed.
func (rl *HTTP) Allow(ip string) bool {
	if rl.getLimiter(ip).Allow() {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Middleware is a chi/net-http compatible rate-limiting middleware.
func (rl *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the originating address from X-Forwarded-For,
// X-Real-IP, or RemoteAddr, in that order.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WebSocket limits concurrent WebSocket connections per IP.
type WebSocket struct {
	connections sync.Map // map[string]*atomic.Int32
	maxPerIP    int
	rejected    atomic.Uint64
}

// NewWebSocket constructs a per-IP WebSocket connection limiter.
func NewWebSocket(maxPerIP int) *WebSocket {
	return &WebSocket{maxPerIP: maxPerIP}
}

// Allow reserves a connection slot for ip, or reports false if its
// limit is already reached.
func (wrl *WebSocket) Allow(ip string) bool {
	actual, _ := wrl.connections.LoadOrStore(ip, new(atomic.Int32))
	counter := actual.(*atomic.Int32)
	for {
		current := counter.Load()
		if int(current) >= wrl.maxPerIP {
			wrl.rejected.Add(1)
			return false
		}
		if counter.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

// Release frees a connection slot reserved by Allow.
func (wrl *WebSocket) Release(ip string) {
	if v, ok := wrl.connections.Load(ip); ok {
		v.(*atomic.Int32).Add(-1)
	}
}
