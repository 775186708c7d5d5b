package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	maxLimiters     = 10000
	limiterIdleTime = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller, keyed by email when
// authenticated and by client IP otherwise. Once maxEntries callers are
// tracked, idle buckets are dropped first, then the least recently seen.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*limiterEntry
	rate       rate.Limit
	burst      int
	maxEntries int
	idleTTL    time.Duration
	now        func() time.Time
	log        logrus.FieldLogger
}

func NewRateLimiter(requestsPerSecond float64, burst int, log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*limiterEntry),
		rate:       rate.Limit(requestsPerSecond),
		burst:      burst,
		maxEntries: maxLimiters,
		idleTTL:    limiterIdleTime,
		now:        time.Now,
		log:        log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= rl.maxEntries {
			rl.evict(now)
		}
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// evict drops buckets idle longer than idleTTL, or the stalest one when every
// bucket is still active. Caller holds mu.
func (rl *RateLimiter) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range rl.limiters {
		if now.Sub(e.lastSeen) > rl.idleTTL {
			delete(rl.limiters, k)
			continue
		}
		if oldestKey == "" || e.lastSeen.Before(oldest) {
			oldestKey, oldest = k, e.lastSeen
		}
	}
	if len(rl.limiters) >= rl.maxEntries {
		delete(rl.limiters, oldestKey)
	}
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(ContextEmail)
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.limiter(key).Allow() {
			rl.log.WithFields(logrus.Fields{
				"key":        key,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(ContextRequestID),
			}).Warn("rate limit exceeded")
			retry := 1
			if rl.rate > 0 {
				retry = int(math.Ceil(1 / float64(rl.rate)))
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}
