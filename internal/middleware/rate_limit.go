package middleware

import (
	"strconv"
	"time"

	"github.com/iamrajpal/goodfood/internal/errs"
	"github.com/iamrajpal/goodfood/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimit = 10
	defaultRateBurst = 20
	limiterExpiry    = 3 * time.Minute
)

// RateLimitMiddleware applies a per-client token bucket. Clients are keyed
// by user id when authenticated, by IP otherwise.
//
// Buckets live in Echo's in-memory store (x/time/rate underneath), so
// limits are per process. Idle buckets are dropped after limiterExpiry.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit builds the limiter from Server.RateLimit (requests per second) and
// Server.RateBurst, falling back to the package defaults when unset.
//
// It must run after RequireAuth for the user:<id> key to apply. Denied
// requests get a 429 errs.HTTPError and are recorded via
// RecordRateLimitHit.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := r.server.Config.Server.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     burst,
		ExpiresIn: limiterExpiry,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			if userID, ok := GetUserID(c); ok {
				return "user:" + strconv.Itoa(userID), nil
			}
			return "ip:" + c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Unable to identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().
				Str("identifier", identifier).
				Str("endpoint", c.Path()).
				Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError("Too many requests, slow down")
		},
	})
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
