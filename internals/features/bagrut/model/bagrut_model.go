package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BagrutModel is one student-instrument matriculation track as stored.
// Presentations/program/documents live in JSONB because legacy rows may
// carry arbitrary shapes that must round-trip untouched until migration;
// the legacy payload column keeps the old top-level grading structures
// exactly as fetched so the detector sees the true raw record.
type BagrutModel struct {
	BagrutID        uuid.UUID `json:"bagrut_id" gorm:"column:bagrut_id;primaryKey;type:uuid;default:gen_random_uuid()"`
	BagrutStudentID uuid.UUID `json:"bagrut_student_id" gorm:"column:bagrut_student_id;type:uuid;not null;index"`
	BagrutTeacherID uuid.UUID `json:"bagrut_teacher_id" gorm:"column:bagrut_teacher_id;type:uuid;not null;index"`

	BagrutRecitalUnits *int    `json:"bagrut_recital_units,omitempty" gorm:"column:bagrut_recital_units"`
	BagrutRecitalField *string `json:"bagrut_recital_field,omitempty" gorm:"column:bagrut_recital_field"`

	BagrutPresentations datatypes.JSON `json:"bagrut_presentations" gorm:"column:bagrut_presentations;type:jsonb"`
	BagrutProgram       datatypes.JSON `json:"bagrut_program,omitempty" gorm:"column:bagrut_program;type:jsonb"`
	BagrutDocuments     datatypes.JSON `json:"bagrut_documents,omitempty" gorm:"column:bagrut_documents;type:jsonb"`

	// Unconverted legacy remnants ({"gradingDetails": ..., "magenBagrut": ...}).
	BagrutLegacyPayload datatypes.JSON `json:"bagrut_legacy_payload,omitempty" gorm:"column:bagrut_legacy_payload;type:jsonb"`

	BagrutIsMigrated bool `json:"bagrut_is_migrated" gorm:"column:bagrut_is_migrated;not null;default:false"`

	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (BagrutModel) TableName() string {
	return "bagruts"
}
