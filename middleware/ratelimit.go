package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"ppsg-cms/internal/config"
	"ppsg-cms/internal/logger"
	"ppsg-cms/utils"
)

// RateLimitMiddleware limits requests per IP + endpoint combination with a
// fixed window counter in Redis. Without Redis it falls back to an
// in-process token bucket per client. A Redis error lets the request through.
func RateLimitMiddleware(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	limit := cfg.RateLimitReqs
	window := time.Duration(cfg.RateLimitWindow) * time.Second
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var local *localLimiter
	if rdb == nil {
		local = newLocalLimiter(limit, window)
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()

		if local != nil {
			if !local.allow(key) {
				tooManyRequests(c, limit, window)
				return
			}
			c.Next()
			return
		}

		ctx := c.Request.Context()
		var incr *redis.IntCmd
		// ExpireNX on every hit also repairs a counter whose TTL was lost.
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			return nil
		})
		if err != nil {
			// Fail open - don't block requests if Redis is down
			logger.Warn("Rate limiter unavailable", slog.String("error", err.Error()))
			c.Next()
			return
		}
		count := incr.Val()

		if count > int64(limit) {
			tooManyRequests(c, limit, window)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limit-int(count)))
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, limit int, window time.Duration) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))
	c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))

	utils.RespondWithError(c, http.StatusTooManyRequests,
		"rate_limit_exceeded",
		"Too many requests. Please try again later.",
		gin.H{
			"retry_after": int(window.Seconds()),
			"limit":       limit,
		})
	c.Abort()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter allows limit requests per window per key, refilling evenly.
type localLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	idle     time.Duration
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		visitors: map[string]*visitor{},
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     2 * window,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.visitors[key]
	if !ok {
		if len(l.visitors) > 10000 {
			l.prune(now)
		}
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func (l *localLimiter) prune(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, k)
		}
	}
}
