package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseResource struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Title       string `gorm:"size:500;not null" json:"title"`
	Type        string `gorm:"size:50;default:'article'" json:"type"`
	URL         string `gorm:"type:text;not null" json:"url"`
	Description string `gorm:"type:text" json:"description"`
	Provider    string `gorm:"size:255" json:"provider"` // hostname lấy từ URL

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *CourseResource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
