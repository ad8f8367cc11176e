// Package ratelimit protects the control API with a per-client token
// bucket. The extension bridge polls aggressively during sync bursts;
// the limiter keeps a runaway client from starving the agent.
package ratelimit

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ClientLimiter rate-limits requests keyed by client address.
type ClientLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a limiter allowing rps requests per second with the
// given burst per client.
func New(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request from the given client may proceed.
func (cl *ClientLimiter) Allow(client string) bool {
	return cl.limiter(client).Allow()
}

func (cl *ClientLimiter) limiter(client string) *rate.Limiter {
	cl.mu.RLock()
	lim, ok := cl.limiters[client]
	cl.mu.RUnlock()
	if ok {
		return lim
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if lim, ok = cl.limiters[client]; ok {
		return lim
	}
	lim = rate.NewLimiter(cl.limit, cl.burst)
	cl.limiters[client] = lim
	return lim
}

// Middleware rejects over-limit requests with 429. The key is the
// remote address as rewritten by upstream middleware (RealIP).
func (cl *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !cl.Allow(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
