package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"inventra/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// purgeInterval controls how often expired client windows are dropped.
const purgeInterval = 5 * time.Minute

type window struct {
	count int
	ends  time.Time
}

// windowLimiter counts requests per client IP in fixed windows. Expired
// entries are purged lazily on access so no background goroutine is needed.
type windowLimiter struct {
	mu        sync.Mutex
	limit     int
	length    time.Duration
	clients   map[string]*window
	lastPurge time.Time
	now       func() time.Time
}

func newWindowLimiter(limit int, length time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:   limit,
		length:  length,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// allow records one request for key and reports whether it is within the limit,
// plus the time the current window ends.
func (l *windowLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purge(now)
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.ends) {
		w = &window{ends: now.Add(l.length)}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.limit, w.ends
}

func (l *windowLimiter) purge(now time.Time) {
	purged := 0
	for key, w := range l.clients {
		if now.After(w.ends) {
			delete(l.clients, key)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.clients)).Msg("rate limiter entries purged")
	}
}

func (l *windowLimiter) middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, ends := l.allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(ends).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter allows 20 login attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newWindowLimiter(20, time.Minute).middleware("too many login attempts, try again in a minute")
}

// RateLimiter limits every client IP to limit requests per window.
func RateLimiter(limit int, length time.Duration) gin.HandlerFunc {
	return newWindowLimiter(limit, length).middleware("too many requests, slow down")
}
