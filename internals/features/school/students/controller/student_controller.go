package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"conservatory_backend/internals/features/school/students/dto"
	"conservatory_backend/internals/features/school/students/model"
	helper "conservatory_backend/internals/helpers"
)

var validate = validator.New()

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

func (ctrl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := ctrl.DB.Create(m).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "יצירת התלמיד נכשלה")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "התלמיד נוצר", dto.ToStudentResponse(m))
}

func (ctrl *StudentController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&model.StudentModel{})
	if school := c.Query("school_id"); school != "" {
		id, err := uuid.Parse(school)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "מזהה מוסד אינו תקין")
		}
		q = q.Where("student_school_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "שליפת תלמידים נכשלה")
	}

	var rows []model.StudentModel
	if err := q.Order("student_last_name").Offset(paging.Offset).Limit(paging.Limit).Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "שליפת תלמידים נכשלה")
	}

	items := make([]dto.StudentResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.ToStudentResponse(&rows[i]))
	}
	return helper.Success(c, "רשימת תלמידים", fiber.Map{
		"items":      items,
		"pagination": helper.BuildPagination(paging, total, len(items)),
	})
}

func (ctrl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "מזהה תלמיד אינו תקין")
	}

	var m model.StudentModel
	if err := ctrl.DB.First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "התלמיד לא נמצא")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "שליפת התלמיד נכשלה")
	}
	return helper.Success(c, "פרטי תלמיד", dto.ToStudentResponse(&m))
}

func (ctrl *StudentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "מזהה תלמיד אינו תקין")
	}

	var m model.StudentModel
	if err := ctrl.DB.First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "התלמיד לא נמצא")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "שליפת התלמיד נכשלה")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "גוף הבקשה אינו תקין")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["student_first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["student_last_name"] = *req.LastName
	}
	if req.Instrument != nil {
		updates["student_instrument"] = *req.Instrument
	}
	if req.Stage != nil {
		updates["student_stage"] = *req.Stage
	}
	if req.IsActive != nil {
		updates["student_is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.Success(c, "לא בוצעו שינויים", dto.ToStudentResponse(&m))
	}

	if err := ctrl.DB.Model(&m).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "עדכון התלמיד נכשל")
	}
	return helper.Success(c, "פרטי התלמיד עודכנו", dto.ToStudentResponse(&m))
}

func (ctrl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "מזהה תלמיד אינו תקין")
	}

	res := ctrl.DB.Delete(&model.StudentModel{}, "student_id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "מחיקת התלמיד נכשלה")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "התלמיד לא נמצא")
	}
	return helper.Success(c, "התלמיד נמחק", fiber.Map{"deleted_id": id})
}
