package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseWordGame: từ vựng cho game chọn định nghĩa đúng (1 đúng + 3 sai).
type CourseWordGame struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Word             string                      `gorm:"size:255;not null" json:"word"`
	Definition       string                      `gorm:"type:text;not null" json:"definition"`
	IncorrectOptions datatypes.JSONSlice[string] `json:"incorrect_options"`
	Difficulty       string                      `gorm:"size:20;default:'medium'" json:"difficulty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *CourseWordGame) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
