package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleType string

const (
	ArticleDeepDive     ArticleType = "deep_dive"
	ArticleKeyTakeaways ArticleType = "key_takeaways"
	ArticleFAQ          ArticleType = "faq" // Content là mảng JSON {question, answer}
)

type CourseArticle struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	ArticleType        ArticleType `gorm:"type:VARCHAR(30);not null" json:"article_type"`
	Title              string      `gorm:"size:255;not null" json:"title"`
	Content            string      `gorm:"type:text" json:"content"`
	ReadingTimeMinutes int         `gorm:"default:5" json:"reading_time_minutes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *CourseArticle) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
