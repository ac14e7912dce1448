package utils

import (
	"log"
	"time"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/models"
)

// CleanupStaleJobs đánh dấu failed cho các job kẹt ở processing quá 30 phút
// (tiến trình bị ngắt giữa chừng do server restart sẽ không tự kết thúc).
func CleanupStaleJobs() {
	db := config.DB

	cutoff := time.Now().Add(-30 * time.Minute)

	var stale []models.GenerationJob
	if err := db.Where("status = ? AND updated_at < ?", models.JobProcessing, cutoff).
		Find(&stale).Error; err != nil {
		log.Printf("Lỗi khi tìm generation jobs bị kẹt: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	now := time.Now()
	for _, job := range stale {
		db.Model(&models.GenerationJob{}).Where("id = ?", job.ID).Updates(map[string]interface{}{
			"status":        models.JobFailed,
			"error_message": "Generation interrupted (stale job)",
			"completed_at":  &now,
		})
		db.Model(&models.Course{}).
			Where("id = ? AND status = ?", job.CourseID, models.CourseGenerating).
			Update("status", models.CourseFailed)
	}

	log.Printf("Đã đánh dấu failed cho %d generation jobs bị kẹt", len(stale))
}

// StartCleanupJob chạy cleanup job định kỳ
func StartCleanupJob() {
	// Chạy cleanup ngay lần đầu khi khởi động
	log.Println("Đang chạy cleanup lần đầu...")
	CleanupStaleJobs()

	// Thiết lập ticker để chạy mỗi 15 phút
	ticker := time.NewTicker(15 * time.Minute)

	go func() {
		defer ticker.Stop()
		for range ticker.C {
			CleanupStaleJobs()
		}
	}()

	log.Println("Cleanup job đã được khởi động (chạy mỗi 15 phút)")
}
