package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/pkg/message"
	"github.com/ferdiebergado/roomkit/internal/pkg/web"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded")

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time

	// clientIP keys the buckets.
	clientIP func(r *http.Request) string
}

func newIPLimiter(cfg *config.RateLimit) *ipLimiter {
	clientIP := remoteIP
	if cfg.TrustProxy {
		clientIP = getIPAddress
	}

	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.Rate),
		burst:    cfg.Burst,
		ttl:      cfg.TTL.Duration,
		now:      time.Now,
		clientIP: clientIP,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.ttl > 0 && now.Sub(l.lastSweep) > l.ttl {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit throttles requests per client IP with a token bucket. Idle clients are forgotten after the configured TTL.
// Forwarding headers only identify the client when cfg.TrustProxy is set.
func RateLimit(cfg *config.RateLimit) func(http.Handler) http.Handler {
	return rateLimit(newIPLimiter(cfg))
}

func rateLimit(l *ipLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := l.clientIP(r)
			if !l.allow(ip) {
				web.RespondTooManyRequests(w, errRateLimited, message.TooManyRequests, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
