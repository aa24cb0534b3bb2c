package http

import (
	"time"

	"v5c-properties/internal/shared/logger"
	"v5c-properties/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestContext copies the request id assigned by the requestid middleware
// into the user context so loggers further down can pick it up.
func RequestContext(localsKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(localsKey).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(log logger.Logger) fiber.Handler {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		entry := log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
		return err
	}
}
