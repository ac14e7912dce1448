package controllers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-course-backend/services"
)

type TTSRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

// TextToSpeechHandler đọc 1 đoạn text bất kỳ, trả MP3 base64.
// Dùng cho frontend nghe thử giọng, không đụng tới pipeline khóa học.
func TextToSpeechHandler(c *gin.Context) {
	var req TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tts := services.NewGoogleTTSFromEnv()
	if tts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "TTS chưa được cấu hình"})
		return
	}

	audioContent, err := tts.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Thời lượng đo từ frame MP3 thật, lỗi đo thì bỏ qua
	duration, _ := services.EstimateMP3Duration(audioContent)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"voice_used":       req.Voice,
		"duration_seconds": duration,
		"audio_content":    base64.StdEncoding.EncodeToString(audioContent),
		"message":          "Text converted to speech successfully",
	})
}
