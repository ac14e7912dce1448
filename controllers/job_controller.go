package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/models"
)

// GetGenerationJob trả về job mới nhất của 1 khóa học,
// dùng cho client poll khi không mở được websocket
func GetGenerationJob(c *gin.Context) {
	courseID := c.Param("id")
	userID := c.GetString("user_id")

	var job models.GenerationJob
	err := config.DB.
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Order("created_at DESC").
		First(&job).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tiến trình cho khóa học này"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}
