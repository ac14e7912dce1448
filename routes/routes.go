package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-course-backend/controllers"
	"github.com/vnkhanh/ai-course-backend/middleware"
	"github.com/vnkhanh/ai-course-backend/models"
	"github.com/vnkhanh/ai-course-backend/services"
	"github.com/vnkhanh/ai-course-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	// Khởi tạo orchestrator 1 lần, controller dùng chung
	controllers.Generation = services.NewGenerationService(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.GetMe)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware())

		// Khóa học AI
		user.POST("/courses/generate", controllers.GenerateCourse)
		user.GET("/courses", controllers.GetMyCourses)
		user.GET("/courses/:id", controllers.GetCourseDetail)
		user.GET("/courses/:id/job", controllers.GetGenerationJob)
		user.DELETE("/courses/:id", controllers.DeleteCourse)

		// CV phục vụ luyện phỏng vấn
		user.POST("/resume", controllers.UploadResume)
		user.GET("/resume", controllers.GetMyResumes)
		user.DELETE("/resume/:id", controllers.DeleteResume)

		// TTS trực tiếp (nghe thử giọng)
		user.POST("/tts", controllers.TextToSpeechHandler)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.RequireRoles(string(models.RoleAdmin)))

		admin.GET("/stats/overview", controllers.GetGenerationOverview)
		admin.GET("/stats/failures", controllers.GetRecentFailures)
	}

	// Theo dõi tiến trình sinh khóa học qua websocket
	r.GET("/ws/course/:id", ws.HandleCourseWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)

	return r
}
