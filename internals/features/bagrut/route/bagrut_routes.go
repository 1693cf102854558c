package route

import (
	bagrutCtrl "conservatory_backend/internals/features/bagrut/controller"
	"conservatory_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func BagrutAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := bagrutCtrl.NewBagrutController(db)

	grp := r.Group("/bagruts")
	grp.Post("/", ctrl.Create)
	grp.Get("/", ctrl.List)
	grp.Get("/:id", ctrl.GetByID)
	grp.Delete("/:id", ctrl.Delete)

	grp.Put("/:id/presentations/:index", ctrl.UpdatePresentation)

	// Core pipeline
	grp.Post("/:id/migrate", middlewares.MigrationRateLimiter(), ctrl.Migrate)
	grp.Get("/:id/validation", ctrl.Validation)
	grp.Get("/:id/grade", ctrl.Grade)
	grp.Get("/:id/report", ctrl.Report)
}
