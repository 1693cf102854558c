package dto

import (
	"time"

	"github.com/google/uuid"

	"conservatory_backend/internals/features/bagrut/engine"
	"conservatory_backend/internals/features/bagrut/model"
)

/* =========================================================
   REQUESTS
========================================================= */

type CreateBagrutRequest struct {
	StudentID    uuid.UUID `json:"bagrut_student_id" validate:"required"`
	TeacherID    uuid.UUID `json:"bagrut_teacher_id" validate:"required"`
	RecitalUnits *int      `json:"bagrut_recital_units" validate:"omitempty,oneof=3 5"`
	RecitalField *string   `json:"bagrut_recital_field" validate:"omitempty,max=100"`
}

// Update one presentation (partial). Index comes from the URL (0..3);
// detailed grading is only accepted on the Magen presentation (index 3).
type UpdatePresentationRequest struct {
	Completed       *bool                   `json:"completed" validate:"omitempty"`
	Status          *string                 `json:"status" validate:"omitempty,oneof=pending scheduled examined completed failed"`
	ExamDate        *time.Time              `json:"exam_date" validate:"omitempty"`
	Review          *string                 `json:"review" validate:"omitempty,max=2000"`
	Notes           *string                 `json:"notes" validate:"omitempty,max=2000"`
	RecordingLinks  []string                `json:"recording_links" validate:"omitempty,dive,url"`
	Grade           *float64                `json:"grade" validate:"omitempty,min=0,max=100"`
	DetailedGrading *DetailedGradingRequest `json:"detailed_grading" validate:"omitempty"`
}

type DetailedGradingRequest struct {
	PlayingSkills        CategoryScoreRequest `json:"playing_skills" validate:"required"`
	MusicalUnderstanding CategoryScoreRequest `json:"musical_understanding" validate:"required"`
	TextKnowledge        CategoryScoreRequest `json:"text_knowledge" validate:"required"`
	PlayingByHeart       CategoryScoreRequest `json:"playing_by_heart" validate:"required"`
}

type CategoryScoreRequest struct {
	Points   *float64 `json:"points" validate:"omitempty,min=0"`
	Comments *string  `json:"comments" validate:"omitempty,max=1000"`
}

type FilterBagrutRequest struct {
	StudentID *uuid.UUID `query:"student_id" validate:"omitempty"`
	TeacherID *uuid.UUID `query:"teacher_id" validate:"omitempty"`
}

/* =========================================================
   RESPONSES
========================================================= */

type BagrutResponse struct {
	BagrutID     uuid.UUID `json:"bagrut_id"`
	StudentID    uuid.UUID `json:"bagrut_student_id"`
	TeacherID    uuid.UUID `json:"bagrut_teacher_id"`
	RecitalUnits *int      `json:"bagrut_recital_units,omitempty"`
	RecitalField *string   `json:"bagrut_recital_field,omitempty"`
	IsMigrated   bool      `json:"bagrut_is_migrated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Record *engine.ExamRecord `json:"record,omitempty"`
}

// MigrationResponse bundles everything the UI shows after a migrate call.
type MigrationResponse struct {
	Detection  engine.DetectionResult   `json:"detection"`
	Migration  *engine.MigrationResult  `json:"migration,omitempty"`
	Validation *engine.ValidationResult `json:"validation,omitempty"`
	Persisted  bool                     `json:"persisted"`
}

func ToBagrutResponse(m *model.BagrutModel, rec *engine.ExamRecord) BagrutResponse {
	return BagrutResponse{
		BagrutID:     m.BagrutID,
		StudentID:    m.BagrutStudentID,
		TeacherID:    m.BagrutTeacherID,
		RecitalUnits: m.BagrutRecitalUnits,
		RecitalField: m.BagrutRecitalField,
		IsMigrated:   m.BagrutIsMigrated,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Record:       rec,
	}
}

/* =========================================================
   Request → engine mapping
========================================================= */

// ApplyToPresentation copies the set fields onto an engine presentation.
// GradeLevel is always derived from the grade, never taken from the client.
func (r *UpdatePresentationRequest) ApplyToPresentation(p *engine.Presentation, msgs *engine.Messages) {
	if r.Completed != nil {
		p.Completed = *r.Completed
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.ExamDate != nil {
		p.ExamDate = r.ExamDate
	}
	if r.Review != nil {
		p.Review = *r.Review
	}
	if r.Notes != nil {
		p.Notes = *r.Notes
	}
	if r.RecordingLinks != nil {
		p.RecordingLinks = r.RecordingLinks
	}
	if r.Grade != nil {
		p.Grade = r.Grade
		p.GradeLevel = msgs.GradeLevelFor(*r.Grade)
	}
	if r.DetailedGrading != nil {
		p.DetailedGrading = r.DetailedGrading.ToEngine()
	}
}

func (d *DetailedGradingRequest) ToEngine() *engine.DetailedGrading {
	cat := func(c CategoryScoreRequest, max float64) engine.CategoryScore {
		out := engine.CategoryScore{MaxPoints: max, Points: c.Points}
		if c.Comments != nil {
			out.Comments = *c.Comments
		}
		return out
	}
	return &engine.DetailedGrading{
		PlayingSkills:        cat(d.PlayingSkills, engine.MaxPlayingSkills),
		MusicalUnderstanding: cat(d.MusicalUnderstanding, engine.MaxMusicalUnderstanding),
		TextKnowledge:        cat(d.TextKnowledge, engine.MaxTextKnowledge),
		PlayingByHeart:       cat(d.PlayingByHeart, engine.MaxPlayingByHeart),
	}
}
