package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseSuggestion struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	SuggestionTopic       string `gorm:"size:255;not null" json:"suggestion_topic"`
	SuggestionDescription string `gorm:"type:text" json:"suggestion_description"`
	RelevanceScore        int    `json:"relevance_score"` // giảm dần theo thứ tự AI trả về

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *CourseSuggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
