package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/models"
	"github.com/vnkhanh/ai-course-backend/services"
	"github.com/vnkhanh/ai-course-backend/utils"
)

// UploadResume nhận file CV (pdf/docx/txt), trích text, nhờ AI
// chuẩn hóa thành JSON rồi lưu file gốc lên Supabase
func UploadResume(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không xác định được người dùng"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu file CV"})
		return
	}
	if fileHeader.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File vượt quá 10MB"})
		return
	}

	extractedText, err := services.ExtractResumeText(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Không đọc được nội dung file: %v", err)})
		return
	}

	// AI trích thông tin có cấu trúc, fail thì vẫn lưu text thô
	var extractedData datatypes.JSON
	if Generation != nil && Generation.Content != nil {
		prompt := fmt.Sprintf(`Extract structured information from this resume.
Respond with ONLY a JSON object: {"name": "...", "email": "...", "skills": ["..."], "experience": [{"title": "...", "company": "...", "years": "..."}], "education": [{"degree": "...", "school": "..."}]}.

Resume text:
%s`, extractedText)

		if raw, err := Generation.Content.Generate(c.Request.Context(), prompt); err == nil {
			if payload, err := services.ExtractJSON(raw); err == nil {
				extractedData = datatypes.JSON(payload)
			}
		}
	}

	resumeID := uuid.New()
	fileURL, err := utils.UploadResumeToSupabase(fileHeader, resumeID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu file CV"})
		return
	}

	resume := models.UserResume{
		ID:            resumeID,
		UserID:        userID,
		OriginalName:  fileHeader.Filename,
		FileURL:       fileURL,
		ExtractedText: extractedText,
		ExtractedData: extractedData,
	}
	if err := config.DB.Create(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu CV"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tải CV thành công",
		"resume":  resume,
	})
}

// GetMyResumes liệt kê CV của user hiện tại
func GetMyResumes(c *gin.Context) {
	userID := c.GetString("user_id")

	var resumes []models.UserResume
	if err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&resumes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tải danh sách CV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"resumes": resumes})
}

// DeleteResume xóa bản ghi và file trên storage
func DeleteResume(c *gin.Context) {
	resumeID := c.Param("id")
	userID := c.GetString("user_id")

	var resume models.UserResume
	if err := config.DB.Where("id = ? AND user_id = ?", resumeID, userID).First(&resume).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy CV"})
		return
	}

	// Xóa file storage trước, lỗi thì vẫn xóa bản ghi
	if err := utils.DeleteFileFromSupabase(resume.FileURL); err != nil {
		log.Printf("Không xóa được file CV trên storage: %v", err)
	}

	if err := config.DB.Delete(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa CV"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa CV"})
}
