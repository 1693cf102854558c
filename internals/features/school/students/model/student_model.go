package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID         uuid.UUID `json:"student_id" gorm:"column:student_id;primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentSchoolID   uuid.UUID `json:"student_school_id" gorm:"column:student_school_id;type:uuid;not null;index"`
	StudentFirstName  string    `json:"student_first_name" gorm:"column:student_first_name;not null"`
	StudentLastName   string    `json:"student_last_name" gorm:"column:student_last_name;not null"`
	StudentInstrument string    `json:"student_instrument" gorm:"column:student_instrument"`
	StudentStage      int       `json:"student_stage" gorm:"column:student_stage;not null;default:1"`
	StudentIsActive   bool      `json:"student_is_active" gorm:"column:student_is_active;not null;default:true"`

	CreatedAt time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

func (StudentModel) TableName() string {
	return "students"
}
