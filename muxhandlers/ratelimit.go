package muxhandlers

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vitalvas/routedoc/mux"
)

// ErrInvalidRate is returned when RateLimitConfig.Rate or Burst is not
// positive.
var ErrInvalidRate = errors.New("rate limit: rate and burst must be greater than zero")

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// Rate is the sustained number of requests per second.
	Rate float64

	// Burst is the number of requests allowed at once.
	Burst int

	// KeyFunc identifies the client. Defaults to the remote IP.
	KeyFunc func(r *http.Request) string

	// MaxIdle removes limiters of clients idle for longer. Defaults to
	// five minutes.
	MaxIdle time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware returns a middleware that answers 429 Too Many
// Requests with a Retry-After header once a client exceeds its budget.
func RateLimitMiddleware(cfg RateLimitConfig) (mux.MiddlewareFunc, error) {
	if cfg.Rate <= 0 || cfg.Burst <= 0 {
		return nil, ErrInvalidRate
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = remoteIP
	}

	maxIdle := cfg.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 5 * time.Minute
	}

	retryAfter := strconv.Itoa(int(math.Ceil(1 / cfg.Rate)))

	var (
		mu          sync.Mutex
		clients     = make(map[string]*clientLimiter)
		lastCleanup time.Time
	)

	allow := func(key string) bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastCleanup) >= maxIdle {
			for k, c := range clients {
				if now.Sub(c.lastSeen) > maxIdle {
					delete(clients, k)
				}
			}
			lastCleanup = now
		}

		c, ok := clients[key]
		if !ok {
			c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
			clients[key] = c
		}
		c.lastSeen = now
		return c.limiter.AllowN(now, 1)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(keyFunc(r)) {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
