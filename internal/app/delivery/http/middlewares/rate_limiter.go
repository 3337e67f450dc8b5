package middlewares

import (
	"clinic-service/internal/pkg/constvars"
	"clinic-service/internal/pkg/exceptions"
	"clinic-service/internal/pkg/utils"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client address.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	log      *zap.Logger
}

func NewRateLimiter(requests int, per time.Duration, burst int, logger *zap.Logger) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(per / time.Duration(requests)),
		burst:    burst,
		log:      logger,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			key = r.RemoteAddr
		}

		limiter := rl.limiterFor(key)
		if !limiter.Allow() {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.limit))
			w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())+1))
			utils.BuildErrorResponse(rl.log, w, exceptions.ErrRateLimited(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// BatchRateLimiter throttles the batch endpoint, which fans out over every doctor.
func (m *Middlewares) BatchRateLimiter() *RateLimiter {
	return NewRateLimiter(
		m.InternalConfig.App.BatchRequestsPerMinute,
		time.Minute,
		m.InternalConfig.App.BatchRequestBurst,
		m.Log,
	)
}

// GlobalRateLimit limits every client to MaxRequests per second.
func (m *Middlewares) GlobalRateLimit() func(next http.Handler) http.Handler {
	return httprate.LimitByIP(m.InternalConfig.App.MaxRequests, time.Second)
}
