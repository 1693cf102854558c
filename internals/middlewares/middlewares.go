package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"conservatory_backend/internals/middlewares/logger"
)

// SetupMiddlewares wires the base middleware stack in order: panic recovery
// first, then CORS, rate limiting and access logging.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(logger.LoggerMiddleware())
}
