package httpx

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures RateLimiter.
type RateLimitOptions struct {
	// Rate is the sustained number of requests per second per client.
	Rate rate.Limit
	// Burst is the bucket size per client.
	Burst int
	// IdleTTL drops limiters for clients quiet this long.
	IdleTTL time.Duration
	// TrustProxy takes the client address from X-Forwarded-For.
	TrustProxy bool
	Now        func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket each.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	opts      RateLimitOptions
	lastSweep time.Time
}

// NewRateLimiter creates a per-IP rate limiter.
func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	if opts.Rate <= 0 {
		opts.Rate = 1
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RateLimiter{clients: make(map[string]*clientLimiter), opts: opts, lastSweep: opts.Now()}
}

// Allow reports whether the client may proceed now.
func (rl *RateLimiter) Allow(client string) bool {
	now := rl.opts.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.opts.IdleTTL {
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) > rl.opts.IdleTTL {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = now
	}

	c, ok := rl.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.opts.Rate, rl.opts.Burst)}
		rl.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r, rl.opts.TrustProxy)) {
			retryAfter := max(int(math.Ceil(1/float64(rl.opts.Rate))), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many requests. Please try again shortly.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
