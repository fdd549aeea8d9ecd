package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iamrajpal/goodfood/internal/middleware"
	"github.com/iamrajpal/goodfood/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const defaultHealthTimeout = 5 * time.Second

var errNotConfigured = errors.New("not configured")

// HealthHandler reports liveness plus database and redis reachability.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type dependencyCheck struct {
	name string
	// critical checks turn the overall status unhealthy; redis only backs
	// recipe events, so it degrades instead.
	critical bool
	ping     func(ctx context.Context) error
}

func (h *HealthHandler) checks() []dependencyCheck {
	obs := h.server.Config.Observability
	enabled := func(name string) bool { return obs == nil || obs.HasCheck(name) }

	var checks []dependencyCheck
	if enabled("database") {
		checks = append(checks, dependencyCheck{name: "database", critical: true, ping: func(ctx context.Context) error {
			if h.server.DB == nil {
				return errNotConfigured
			}
			return h.server.DB.Ping(ctx)
		}})
	}
	if enabled("redis") {
		checks = append(checks, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			if h.server.Redis == nil {
				return errNotConfigured
			}
			return h.server.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return defaultHealthTimeout
}

// CheckHealth answers 200 when every critical dependency responds and 503
// otherwise. Each check reports its own status and response time.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true
	for _, check := range h.checks() {
		if err := h.runCheck(c.Request().Context(), &logger, check, checks); err != nil && check.critical {
			isHealthy = false
		}
	}

	status := http.StatusOK
	if !isHealthy {
		response["status"] = "unhealthy"
		status = http.StatusServiceUnavailable

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		h.recordFailure("overall", map[string]interface{}{
			"total_duration_ms": time.Since(start).Milliseconds(),
		})
	} else {
		logger.Debug().
			Dur("total_duration", time.Since(start)).
			Msg("health check passed")
	}

	if err := c.JSON(status, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) runCheck(parent context.Context, logger *zerolog.Logger, check dependencyCheck, out map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(parent, h.timeout())
	defer cancel()

	checkStart := time.Now()
	err := check.ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		out[check.name] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}
		logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("dependency health check failed")
		h.recordFailure(check.name, map[string]interface{}{
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return err
	}

	out[check.name] = map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}
	return nil
}

// recordFailure emits a HealthCheckError custom event when New Relic is on.
func (h *HealthHandler) recordFailure(checkType string, attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	attrs["error_type"] = checkType + "_unhealthy"
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
