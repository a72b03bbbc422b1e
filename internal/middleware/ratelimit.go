package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"pageforge/internal/httputil"
)

// ipLimiter tracks one token bucket per client IP and drops buckets
// that have been idle for a while.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	limit    rate.Limit
	burst    int
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*ipEntry),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()

	if len(l.limiters) > 10000 {
		l.evictIdle()
	}
	return entry.limiter.Allow()
}

// evictIdle drops buckets idle for over an hour. Caller holds mu.
func (l *ipLimiter) evictIdle() {
	cutoff := time.Now().Add(-time.Hour)
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// SubmissionRateLimit throttles public form submissions per client IP.
// Only POST /api/submissions is limited; the builder surface and page
// views pass through untouched.
func SubmissionRateLimit(perMinute int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(perMinute, perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/submissions" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.allow(clientIP(r)) {
				httputil.RespondError(w, http.StatusTooManyRequests, "too many submissions, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
