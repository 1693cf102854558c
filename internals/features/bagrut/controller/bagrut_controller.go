package controller

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"conservatory_backend/internals/features/bagrut/dto"
	"conservatory_backend/internals/features/bagrut/engine"
	"conservatory_backend/internals/features/bagrut/service"
	helper "conservatory_backend/internals/helpers"
)

var validate = validator.New()

type BagrutController struct {
	DB      *gorm.DB
	Service *service.Service
}

func NewBagrutController(db *gorm.DB) *BagrutController {
	return &BagrutController{
		DB:      db,
		Service: service.New(db, engine.DefaultMessages()),
	}
}

func (ctrl *BagrutController) parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "מזהה רשומה אינו תקין")
	}
	return id, nil
}

// POST /bagruts
func (ctrl *BagrutController) Create(c *fiber.Ctx) error {
	var req dto.CreateBagrutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, rec, err := ctrl.Service.Create(req.StudentID, req.TeacherID, req.RecitalUnits, req.RecitalField)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "יצירת רשומת הבגרות נכשלה")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "רשומת בגרות נוצרה", dto.ToBagrutResponse(m, rec))
}

// GET /bagruts
func (ctrl *BagrutController) List(c *fiber.Ctx) error {
	var filter dto.FilterBagrutRequest
	if err := c.QueryParser(&filter); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "פרמטרי סינון אינם תקינים")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctrl.Service.List(filter.StudentID, filter.TeacherID, paging.Offset, paging.Limit)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "שליפת רשומות נכשלה")
	}

	items := make([]dto.BagrutResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.ToBagrutResponse(&rows[i], nil))
	}
	return helper.Success(c, "רשומות בגרות", fiber.Map{
		"items":      items,
		"pagination": helper.BuildPagination(paging, total, len(items)),
	})
}

// GET /bagruts/:id
func (ctrl *BagrutController) GetByID(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	m, err := ctrl.Service.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "שליפת הרשומה נכשלה")
	}
	rec, err := ctrl.Service.AssembleRecord(m)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "פענוח הרשומה נכשל")
	}
	return helper.Success(c, "רשומת בגרות", dto.ToBagrutResponse(m, rec))
}

// PUT /bagruts/:id/presentations/:index
func (ctrl *BagrutController) UpdatePresentation(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 || index >= engine.RequiredPresentations {
		return helper.Error(c, fiber.StatusBadRequest, "אינדקס השמעה אינו תקין")
	}

	var req dto.UpdatePresentationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	// Detailed grading belongs to the Magen presentation only.
	if req.DetailedGrading != nil && index != engine.MagenIndex {
		return helper.Error(c, fiber.StatusBadRequest, "ציון מפורט מותר רק בהשמעת מגן הבגרות")
	}

	msgs := ctrl.Service.Msgs
	m, rec, vr, err := ctrl.Service.UpdatePresentation(id, index, func(p *engine.Presentation) {
		req.ApplyToPresentation(p, msgs)
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "עדכון ההשמעה נכשל")
	}
	if !vr.IsValid {
		return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "העדכון נדחה — הרשומה אינה תקינה", vr)
	}
	return helper.Success(c, "ההשמעה עודכנה", fiber.Map{
		"bagrut":     dto.ToBagrutResponse(m, rec),
		"validation": vr,
	})
}

// POST /bagruts/:id/migrate
func (ctrl *BagrutController) Migrate(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	out, err := ctrl.Service.Migrate(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "הרצת ההמרה נכשלה")
	}

	resp := dto.MigrationResponse{
		Detection:  out.Detection,
		Migration:  out.Migration,
		Validation: out.Validation,
		Persisted:  out.Persisted,
	}
	if out.Migration != nil && !out.Migration.Success {
		return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, out.Migration.Errors[0], resp)
	}
	msg := "הרשומה במבנה הנוכחי — לא נדרשה המרה"
	if out.Persisted {
		msg = "ההמרה הושלמה ונשמרה"
	} else if out.Migration != nil {
		msg = "ההמרה בוצעה אך לא נשמרה — הרשומה אינה תקינה"
	}
	return helper.Success(c, msg, resp)
}

// GET /bagruts/:id/validation
func (ctrl *BagrutController) Validation(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	vr, err := ctrl.Service.Validate(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "בדיקת התקינות נכשלה")
	}
	return helper.Success(c, "תוצאות בדיקת תקינות", vr)
}

// GET /bagruts/:id/grade?magen_bonus=true
func (ctrl *BagrutController) Grade(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	includeBonus := c.QueryBool("magen_bonus", false)
	res, err := ctrl.Service.Grade(id, includeBonus)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "חישוב הציון נכשל")
	}
	return helper.Success(c, "חישוב ציון סופי", res)
}

// GET /bagruts/:id/report
func (ctrl *BagrutController) Report(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	rep, err := ctrl.Service.Report(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "הפקת הדוח נכשלה")
	}
	return helper.Success(c, "דוח התקדמות", rep)
}

// DELETE /bagruts/:id
func (ctrl *BagrutController) Delete(c *fiber.Ctx) error {
	id, err := ctrl.parseID(c)
	if err != nil {
		return err
	}
	if err := ctrl.Service.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "רשומת הבגרות לא נמצאה")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "מחיקת הרשומה נכשלה")
	}
	return helper.Success(c, "רשומת הבגרות נמחקה", fiber.Map{"deleted_id": id})
}
