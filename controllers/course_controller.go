package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/models"
	"github.com/vnkhanh/ai-course-backend/services"
)

// Generation được gán 1 lần lúc khởi động (routes.SetupRouter)
var Generation *services.GenerationService

type GenerateCourseInput struct {
	Topic string `json:"topic" binding:"required"`
}

// GenerateCourse nhận topic, tạo course + job rồi trả về ngay.
// Pipeline chạy nền; frontend theo dõi qua ws hoặc poll job.
func GenerateCourse(c *gin.Context) {
	var input GenerateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu topic"})
		return
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu topic"})
		return
	}

	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không xác định được người dùng"})
		return
	}

	course, job, err := Generation.StartGeneration(topic, userID)
	if err != nil {
		if errors.Is(err, services.ErrContentProviderMissing) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Dịch vụ AI chưa được cấu hình"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"courseId":      course.ID,
		"jobId":         job.ID,
		"estimatedTime": 40,
	})
}

// GetMyCourses liệt kê khóa học của user hiện tại, mới nhất trước
func GetMyCourses(c *gin.Context) {
	userID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Course{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tải danh sách khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetCourseDetail trả về khóa học kèm toàn bộ nội dung đã sinh,
// chapters theo order_number, audio/resources/suggestions theo thứ tự tạo
func GetCourseDetail(c *gin.Context) {
	courseID := c.Param("id")
	userID := c.GetString("user_id")

	var course models.Course
	err := config.DB.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB { return db.Order("order_number ASC") }).
		Preload("Flashcards").
		Preload("MCQs").
		Preload("Articles").
		Preload("WordGames").
		Preload("Audio").
		Preload("Resources").
		Preload("Suggestions", func(db *gorm.DB) *gorm.DB { return db.Order("relevance_score DESC") }).
		Where("id = ? AND user_id = ?", courseID, userID).
		First(&course).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course})
}

// DeleteCourse xóa khóa học (các bảng con xóa theo nhờ CASCADE)
func DeleteCourse(c *gin.Context) {
	courseID := c.Param("id")
	userID := c.GetString("user_id")

	var course models.Course
	if err := config.DB.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học"})
		return
	}

	if course.Status == models.CourseGenerating {
		c.JSON(http.StatusConflict, gin.H{"error": "Khóa học đang được tạo, không thể xóa"})
		return
	}

	if err := config.DB.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa khóa học"})
}
