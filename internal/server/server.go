package server

import (
	"errors"

	"github.com/fathima-sithara/taskhub/internal/config"
	"github.com/fathima-sithara/taskhub/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

// New initializes the Fiber application with config, middlewares, and the
// outermost error boundary.
func New(cfg *config.Config, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.FrontendURL,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger))

	return app
}

// errorHandler is the outermost boundary: expected fiber errors keep their
// status, everything else becomes a generic 500. Internals are logged, never
// sent to the client.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal Server Error",
		})
	}
}
