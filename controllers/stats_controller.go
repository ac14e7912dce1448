package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/models"
)

type GenerationOverview struct {
	TotalUsers       int64   `json:"total_users"`
	TotalCourses     int64   `json:"total_courses"`
	Generating       int64   `json:"generating"`
	Published        int64   `json:"published"`
	Failed           int64   `json:"failed"`
	FailedJobs       int64   `json:"failed_jobs"`
	AvgGenerationSec float64 `json:"avg_generation_sec"`
}

// GetGenerationOverview thống kê tổng quan cho dashboard admin
func GetGenerationOverview(c *gin.Context) {
	db := config.DB

	var stats GenerationOverview
	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.Course{}).Count(&stats.TotalCourses)
	db.Model(&models.Course{}).Where("status = ?", models.CourseGenerating).Count(&stats.Generating)
	db.Model(&models.Course{}).Where("status = ?", models.CoursePublished).Count(&stats.Published)
	db.Model(&models.Course{}).Where("status = ?", models.CourseFailed).Count(&stats.Failed)
	db.Model(&models.GenerationJob{}).Where("status = ?", models.JobFailed).Count(&stats.FailedJobs)

	// Thời gian sinh trung bình chỉ tính trên khóa đã publish
	row := db.Model(&models.Course{}).
		Where("status = ?", models.CoursePublished).
		Select("COALESCE(AVG(generation_duration_seconds), 0)").Row()
	if row != nil {
		row.Scan(&stats.AvgGenerationSec)
	}

	c.JSON(http.StatusOK, gin.H{"overview": stats})
}

// GetRecentFailures liệt kê các job failed gần nhất kèm lý do
func GetRecentFailures(c *gin.Context) {
	var jobs []models.GenerationJob
	if err := config.DB.Where("status = ?", models.JobFailed).
		Order("updated_at DESC").Limit(20).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tải danh sách job lỗi"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"failures": jobs})
}
