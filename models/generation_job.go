package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// GenerationJob: bản ghi tiến trình của 1 lần sinh khóa học.
// Chỉ orchestrator được ghi; frontend chỉ đọc (poll hoặc subscribe qua ws).
type GenerationJob struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	JobType            string    `gorm:"size:50;default:'course_creation'" json:"job_type"`
	Status             JobStatus `gorm:"type:VARCHAR(20);default:'processing'" json:"status"` // processing | completed | failed
	ProgressPercentage int       `gorm:"default:0" json:"progress_percentage"`                // 0..100, chỉ tăng
	CurrentStep        string    `gorm:"size:255" json:"current_step"`
	ErrorMessage       string    `gorm:"type:text" json:"error_message,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (j *GenerationJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
