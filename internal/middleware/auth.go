package middleware

import (
	"strings"
	"time"

	"github.com/iamrajpal/goodfood/internal/errs"
	"github.com/iamrajpal/goodfood/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

const bearerPrefix = "bearer "

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (int, error)
}

type AuthMiddleware struct {
	server   *server.Server
	verifier TokenVerifier
}

func NewAuthMiddleware(s *server.Server, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		server:   s,
		verifier: verifier,
	}
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token.
//
// Flow:
//   - the scheme is matched case-insensitively ("bearer x" is accepted)
//   - the token goes to the verifier, which returns the owning user id
//   - any failure is a plain 401; the reason is only logged, never sent
//
// On success the user id is stored under UserIDKey, the request logger is
// replaced by one carrying user_id, and the New Relic transaction gets a
// user.id attribute. Handlers read the id back through GetUserID.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		logger := GetLogger(c)

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			logger.Warn().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("missing bearer token")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		userID, err := auth.verifier.VerifyToken(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			logger.Warn().
				Err(err).
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("invalid bearer token")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		c.Set(UserIDKey, userID)

		// Later middleware (rate limiter) and handlers log with the user.
		userLogger := logger.With().Int("user_id", userID).Logger()
		setLogger(c, &userLogger)

		if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
			txn.AddAttribute("user.id", userID)
		}

		userLogger.Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}
