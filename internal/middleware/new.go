package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"agenda-assistant/pkg/log"
)

// ContextRequestIDKey is the gin context key holding the request id.
const ContextRequestIDKey = "request_id"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// limiterTTL bounds how long an idle client keeps its rate-limiter slot.
const limiterTTL = 10 * time.Minute

type Middleware struct {
	l         log.Logger
	perMinute int
	limiters  *expirable.LRU[string, *rate.Limiter]
}

// New creates the middleware set. ratePerMinute <= 0 disables rate limiting.
func New(l log.Logger, ratePerMinute int) Middleware {
	return Middleware{
		l:         l,
		perMinute: ratePerMinute,
		limiters:  expirable.NewLRU[string, *rate.Limiter](4096, nil, limiterTTL),
	}
}
