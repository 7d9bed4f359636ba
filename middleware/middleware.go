package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"inventory/logging"
	"inventory/metrics"
)

// RequestLogger logs every request and records its latency.
func RequestLogger(logger *logging.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		if m != nil {
			m.ObserveRequest(c.Method(), route, status, elapsed)
		}
		logger.Debug("Request handled",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", elapsed.String(),
		)
		return err
	}
}

// ErrorHandler converts errors escaping the handlers into the JSON error envelope.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("Request error",
				"path", c.Path(),
				"method", c.Method(),
				"status", code,
				"error", err,
			)
		}

		return c.Status(code).JSON(fiber.Map{"status": "error", "message": message})
	}
}
