package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseChapter struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Title                string `gorm:"size:255;not null" json:"title"`
	Content              string `gorm:"type:text" json:"content"`
	OrderNumber          int    `gorm:"not null" json:"order_number"` // 1-based, theo thứ tự outline
	EstimatedReadingTime int    `gorm:"default:10" json:"estimated_reading_time"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *CourseChapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
