package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"agenda-assistant/pkg/response"
)

// RequestID assigns every request a correlation id, honoring one supplied by
// the caller, and echoes it in the response headers.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one access-log line per request.
func (m Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startAt := time.Now()
		c.Next()
		m.l.Infof(c.Request.Context(), "http: %s %s -> %d (%s) request=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(startAt), c.GetString(ContextRequestIDKey))
	}
}

// RateLimit enforces a per-client request budget. Clients are keyed by IP;
// idle clients age out of the limiter table on their own.
func (m Middleware) RateLimit() gin.HandlerFunc {
	if m.perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		lim, ok := m.limiters.Get(key)
		if !ok {
			lim = rate.NewLimiter(rate.Limit(float64(m.perMinute)/60.0), m.perMinute)
			m.limiters.Add(key, lim)
		}

		if !lim.Allow() {
			m.l.Warnf(c.Request.Context(), "http: rate limit exceeded for %s", key)
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
