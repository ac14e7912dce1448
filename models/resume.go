package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserResume: CV người dùng upload để luyện phỏng vấn.
// ExtractedData là JSON có cấu trúc do AI trích xuất từ nội dung CV.
type UserResume struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	OriginalName  string         `gorm:"size:255;not null" json:"original_name"`
	FileURL       string         `gorm:"type:text;not null" json:"file_url"`
	ExtractedText string         `gorm:"type:text" json:"extracted_text"`
	ExtractedData datatypes.JSON `json:"extracted_data"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *UserResume) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
