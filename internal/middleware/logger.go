package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/metrics"
)

// RequestLogger logs one line per request and records its latency. Only the
// user id is logged about the caller.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler write the response so the status is final
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)
		route := c.Route().Path

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if sess := CurrentSession(c); sess.Authenticated() {
			fields = append(fields, zap.String("user_id", sess.UserID.String()))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}

		if m != nil {
			m.RequestDuration.
				WithLabelValues(c.Method(), route, strconv.Itoa(status)).
				Observe(latency.Seconds())
		}
		return nil
	}
}
