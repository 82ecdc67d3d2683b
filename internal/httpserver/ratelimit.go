package httpserver

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fdg312/diet-planner/internal/config"
	"golang.org/x/time/rate"
)

// reportCost is what a PDF render takes from the caller's bucket.
const reportCost = 2

// visitors keeps one token bucket per client IP.
type visitors struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
	hits    atomic.Int64
}

func newVisitors(rps, burst int) *visitors {
	return &visitors{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (v *visitors) bucket(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.hits.Add(1)%1000 == 0 {
		v.evictIdle()
	}

	b, ok := v.buckets[ip]
	if !ok {
		b = rate.NewLimiter(v.limit, v.burst)
		v.buckets[ip] = b
	}
	return b
}

// evictIdle drops buckets that have refilled completely. Callers hold mu.
func (v *visitors) evictIdle() {
	for ip, b := range v.buckets {
		if b.Tokens() >= float64(v.burst) {
			delete(v.buckets, ip)
		}
	}
}

// requestCost is the number of tokens r takes, capped at burst so a
// report can always be fetched from a full bucket.
func requestCost(r *http.Request, burst int) int {
	p := r.URL.Path
	if strings.HasPrefix(p, "/v1/clients/") &&
		(strings.HasSuffix(p, "/report") || strings.HasSuffix(p, "/report/archive")) {
		return min(reportCost, burst)
	}
	return 1
}

// RateLimitMiddleware enforces a per-IP token bucket. RateLimitRPS <= 0
// disables it. Health checks are never limited.
func RateLimitMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.RateLimitRPS <= 0 {
		return next
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}
	v := newVisitors(cfg.RateLimitRPS, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !v.bucket(clientIP(r)).AllowN(time.Now(), requestCost(r, burst)) {
			writeRateLimited(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":{"code":"rate_limited","message":"Too many requests"}}`))
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
