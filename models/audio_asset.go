package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AudioType string

const (
	AudioShortPodcast AudioType = "short_podcast"
	AudioFullLecture  AudioType = "full_lecture"
)

type CourseAudio struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	AudioType  AudioType `gorm:"type:VARCHAR(30);not null" json:"audio_type"`
	AudioURL   string    `gorm:"type:text;not null" json:"audio_url"`
	ScriptText string    `gorm:"type:text" json:"script_text"`
	// Thời lượng danh nghĩa theo loại (300s / 1200s), không đo từ file thật
	DurationSeconds int    `json:"duration_seconds"`
	VoiceUsed       string `gorm:"size:100" json:"voice_used"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *CourseAudio) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
