package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"conservatory_backend/internals/features/school/students/model"
)

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

/* ============ REQUESTS ============ */

type CreateStudentRequest struct {
	SchoolID   uuid.UUID `json:"student_school_id" validate:"required"`
	FirstName  string    `json:"student_first_name" validate:"required,max=100"`
	LastName   string    `json:"student_last_name" validate:"required,max=100"`
	Instrument *string   `json:"student_instrument" validate:"omitempty,max=100"`
	Stage      *int      `json:"student_stage" validate:"omitempty,min=1,max=8"`
}

type UpdateStudentRequest struct {
	FirstName  *string `json:"student_first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"student_last_name" validate:"omitempty,max=100"`
	Instrument *string `json:"student_instrument" validate:"omitempty,max=100"`
	Stage      *int    `json:"student_stage" validate:"omitempty,min=1,max=8"`
	IsActive   *bool   `json:"student_is_active" validate:"omitempty"`
}

/* ============ RESPONSE ============ */

type StudentResponse struct {
	StudentID  uuid.UUID `json:"student_id"`
	SchoolID   uuid.UUID `json:"student_school_id"`
	FirstName  string    `json:"student_first_name"`
	LastName   string    `json:"student_last_name"`
	Instrument string    `json:"student_instrument,omitempty"`
	Stage      int       `json:"student_stage"`
	IsActive   bool      `json:"student_is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToStudentResponse(m *model.StudentModel) StudentResponse {
	return StudentResponse{
		StudentID:  m.StudentID,
		SchoolID:   m.StudentSchoolID,
		FirstName:  m.StudentFirstName,
		LastName:   m.StudentLastName,
		Instrument: m.StudentInstrument,
		Stage:      m.StudentStage,
		IsActive:   m.StudentIsActive,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *CreateStudentRequest) ToModel() *model.StudentModel {
	m := &model.StudentModel{
		StudentSchoolID:  r.SchoolID,
		StudentFirstName: strings.TrimSpace(r.FirstName),
		StudentLastName:  strings.TrimSpace(r.LastName),
		StudentStage:     1,
		StudentIsActive:  true,
	}
	if v := trimPtr(r.Instrument); v != nil {
		m.StudentInstrument = *v
	}
	if r.Stage != nil {
		m.StudentStage = *r.Stage
	}
	return m
}
