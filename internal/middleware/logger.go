package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger logs every request with a generated request id.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := uuid.NewString()
		c.Set("X-Request-ID", reqID)

		err := c.Next()
		latency := time.Since(start)
		status := c.Response().StatusCode()

		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}

		if err != nil {
			logger.Error("HTTP Request Error", append(fields, zap.Error(err))...)
			return err
		}

		logger.Info("HTTP Request", fields...)
		return nil
	}
}
