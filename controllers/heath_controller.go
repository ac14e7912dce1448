package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/models"
	"github.com/vnkhanh/ai-course-backend/ws"
)

// HealthCheck: ping DB + số job đang chạy + thống kê websocket
func HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"db":        "ok",
		"websocket": gin.H{
			"enabled": true,
			"stats":   ws.H.GetStats(),
		},
	}

	sqlDB, err := config.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		response["db"] = "error: " + err.Error()
		response["status"] = "degraded"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	var activeJobs int64
	config.DB.Model(&models.GenerationJob{}).
		Where("status = ?", models.JobProcessing).Count(&activeJobs)
	response["active_generations"] = activeJobs

	c.JSON(http.StatusOK, response)
}
