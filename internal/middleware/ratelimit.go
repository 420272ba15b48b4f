package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"virtual-bookclub/backend/internal/logger"
)

// IPRateLimiter manages per-IP rate limiting
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	limiter, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// retryAfter returns how long a client should wait for the next token, in whole seconds
func (l *IPRateLimiter) retryAfter() int {
	if l.rate <= 0 || l.rate == rate.Inf {
		return 1
	}
	return int(math.Ceil(1 / float64(l.rate)))
}

// DailyQuota manages global daily search quota
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	mu      sync.Mutex
	now     func() time.Time
}

// NewDailyQuota creates a new daily quota manager. A limit <= 0 disables the quota.
func NewDailyQuota(limit int64) *DailyQuota {
	q := &DailyQuota{
		limit: limit,
		now:   time.Now,
	}
	q.resetAt = nextMidnightPT(q.now())
	return q
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.limit <= 0 {
		return true
	}

	// Check if we need to reset
	now := q.now()
	if now.After(q.resetAt) {
		logger.For(context.Background()).Infof("[QUOTA] Daily quota reset. Previous count: %d", q.count)
		q.count = 0
		q.resetAt = nextMidnightPT(now)
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// Count returns the current count
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// secondsUntilReset returns the seconds until the quota resets
func (q *DailyQuota) secondsUntilReset() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int(math.Ceil(q.resetAt.Sub(q.now()).Seconds()))
}

// nextMidnightPT returns the next midnight in Pacific Time (Gemini API reset time)
func nextMidnightPT(now time.Time) time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		// Fallback to UTC if timezone not found
		loc = time.UTC
	}
	now = now.In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
}

// RejectFunc writes the response for a request refused by the rate limiter
type RejectFunc func(c *gin.Context, message, code string, retryAfter int)

// RateLimitMiddleware applies the per-IP limit first, then the global daily quota,
// so requests refused per IP never consume the quota.
// Rejected requests get 429 with Retry-After and a JSON body.
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return RateLimitWith(ipLimiter, quota, RejectJSON)
}

// RateLimitWith is RateLimitMiddleware with a custom rejection response
func RateLimitWith(ipLimiter *IPRateLimiter, quota *DailyQuota, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ipLimiter != nil && !ipLimiter.GetLimiter(c.ClientIP()).Allow() {
			logger.For(c.Request.Context()).Infof("[RATE] Limited ip=%s", c.ClientIP())
			respond(c, reject, "Too many searches. Please wait a moment.", "RATE_LIMITED", ipLimiter.retryAfter())
			return
		}

		if quota != nil && !quota.Allow() {
			wait := quota.secondsUntilReset()
			logger.For(c.Request.Context()).Warnf("[QUOTA] Daily search quota exhausted, resets in %ds", wait)
			respond(c, reject, "The book club is closed for today. Please come back tomorrow.", "DAILY_QUOTA_EXCEEDED", wait)
			return
		}

		c.Next()
	}
}

func respond(c *gin.Context, reject RejectFunc, message, code string, retryAfter int) {
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	reject(c, message, code, retryAfter)
	c.Abort()
}

// RejectJSON writes the 429 JSON body used by the API
func RejectJSON(c *gin.Context, message, code string, retryAfter int) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":      message,
		"code":       code,
		"retryAfter": retryAfter,
	})
}
