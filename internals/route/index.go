package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bagrutRoute "conservatory_backend/internals/features/bagrut/route"
	studentRoute "conservatory_backend/internals/features/school/students/route"
	authMiddleware "conservatory_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	public.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (JWT)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Setting up StudentRoutes...")
	studentRoute.StudentAdminRoutes(admin, db)

	log.Println("[INFO] Setting up BagrutRoutes...")
	bagrutRoute.BagrutAdminRoutes(admin, db)
}
