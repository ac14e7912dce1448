package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseGenerating CourseStatus = "generating"
	CoursePublished  CourseStatus = "published"
	CourseFailed     CourseStatus = "failed"
)

type Course struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null" json:"user_id"`
	User       User         `gorm:"constraint:OnDelete:CASCADE;" json:"user"`
	Title      string       `gorm:"size:255;not null" json:"title"` // chính là topic người dùng nhập
	Slug       string       `gorm:"size:255;index" json:"slug"`
	Purpose    string       `gorm:"size:50;default:'practice'" json:"purpose"`
	Difficulty string       `gorm:"size:20;default:'intermediate'" json:"difficulty"`
	Status     CourseStatus `gorm:"type:VARCHAR(20);default:'generating'" json:"status"` // generating | published | failed
	Summary    string       `gorm:"type:text" json:"summary"`

	AudioGenerated    bool `gorm:"default:false" json:"audio_generated"`
	ArticlesGenerated bool `gorm:"default:false" json:"articles_generated"`
	GamesGenerated    bool `gorm:"default:false" json:"games_generated"`

	GenerationDurationSeconds int `json:"generation_duration_seconds"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Chapters    []CourseChapter    `json:"chapters,omitempty"`
	Flashcards  []CourseFlashcard  `json:"flashcards,omitempty"`
	MCQs        []CourseMCQ        `json:"mcqs,omitempty"`
	Articles    []CourseArticle    `json:"articles,omitempty"`
	WordGames   []CourseWordGame   `json:"word_games,omitempty"`
	Audio       []CourseAudio      `json:"audio,omitempty"`
	Resources   []CourseResource   `json:"resources,omitempty"`
	Suggestions []CourseSuggestion `json:"suggestions,omitempty"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
