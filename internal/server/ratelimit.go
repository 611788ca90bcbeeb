package server

import (
	"net"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimiter provides per-IP request rate limiting. Visitor state
// lives in an LRU so idle clients age out without a cleanup goroutine.
type RateLimiter struct {
	visitors *lru.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing r requests per second with
// the given burst, tracking at most maxVisitors distinct client IPs.
func NewRateLimiter(r rate.Limit, burst, maxVisitors int) (*RateLimiter, error) {
	visitors, err := lru.New[string, *rate.Limiter](maxVisitors)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{visitors: visitors, rate: r, burst: burst}, nil
}

// Middleware rejects requests over the per-IP budget with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		limiter, ok := rl.visitors.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(rl.rate, rl.burst)
			rl.visitors.Add(ip, limiter)
		}

		if !limiter.Allow() {
			rateLimited.Inc()
			log.Warn().Str("ip", ip).Msg("Rate limit exceeded")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
