package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/ai-course-backend/config"
	"github.com/vnkhanh/ai-course-backend/controllers"
	"github.com/vnkhanh/ai-course-backend/models"
	"github.com/vnkhanh/ai-course-backend/routes"
	"github.com/vnkhanh/ai-course-backend/services"
	"github.com/vnkhanh/ai-course-backend/utils"
)

// stubAI trả về payload hợp lệ cho mọi prompt để pipeline chạy hết
type stubAI struct{}

const universalItems = `[{"question": "q", "answer": "a", "options": ["a", "b", "c", "d"], "correct_answer": "a", "explanation": "e", "word": "w", "correct_definition": "cd", "incorrect_options": ["x", "y", "z"], "topic": "t", "description": "d"}]`

func (stubAI) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "course outline") {
		return `{"chapters": [
			{"title": "One", "objectives": ["o"], "keyConcepts": ["k"], "estimatedMinutes": 5},
			{"title": "Two", "objectives": ["o"], "keyConcepts": ["k"], "estimatedMinutes": 5}
		]}`, nil
	}
	return universalItems, nil
}

func setupTestServer(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.GenerationJob{},
		&models.CourseChapter{},
		&models.CourseFlashcard{},
		&models.CourseMCQ{},
		&models.CourseArticle{},
		&models.CourseWordGame{},
		&models.CourseAudio{},
		&models.CourseResource{},
		&models.CourseSuggestion{},
		&models.UserResume{},
	))
	config.DB = db

	r := routes.SetupRouter(gin.New(), db)

	// Thay orchestrator bằng bản dùng AI giả, không audio/search
	controllers.Generation = &services.GenerationService{
		DB:          db,
		Content:     stubAI{},
		StepTimeout: 5 * time.Second,
	}

	user := models.User{FullName: "Test User", Email: "test@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID.String(), string(user.Role))
	require.NoError(t, err)

	return r, token
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateCourseEndpoint(t *testing.T) {
	r, token := setupTestServer(t)

	// Chưa đăng nhập
	w := doJSON(r, http.MethodPost, "/api/user/courses/generate", "", `{"topic": "Go"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Thiếu topic
	w = doJSON(r, http.MethodPost, "/api/user/courses/generate", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Hợp lệ: trả về ngay courseId + jobId
	w = doJSON(r, http.MethodPost, "/api/user/courses/generate", token, `{"topic": "Go testing"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success       bool   `json:"success"`
		CourseID      string `json:"courseId"`
		JobID         string `json:"jobId"`
		EstimatedTime int    `json:"estimatedTime"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.CourseID)
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, 40, resp.EstimatedTime)

	// Poll job tới khi xong
	jobPath := "/api/user/courses/" + resp.CourseID + "/job"
	require.Eventually(t, func() bool {
		w := doJSON(r, http.MethodGet, jobPath, token, "")
		if w.Code != http.StatusOK {
			return false
		}
		var jr struct {
			Job models.GenerationJob `json:"job"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &jr); err != nil {
			return false
		}
		return jr.Job.Status == models.JobCompleted
	}, 10*time.Second, 50*time.Millisecond)

	// Danh sách có khóa học vừa tạo
	w = doJSON(r, http.MethodGet, "/api/user/courses", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Courses []models.Course `json:"courses"`
		Total   int64           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Courses, 1)
	assert.Equal(t, models.CoursePublished, list.Courses[0].Status)

	// Chi tiết kèm nội dung đã sinh
	w = doJSON(r, http.MethodGet, "/api/user/courses/"+resp.CourseID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Course models.Course `json:"course"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Go testing", detail.Course.Title)
	assert.Len(t, detail.Course.Chapters, 2)
	assert.NotEmpty(t, detail.Course.Flashcards)
	assert.NotEmpty(t, detail.Course.Suggestions)
}

func TestGenerateCourseWithoutAIConfigured(t *testing.T) {
	r, token := setupTestServer(t)
	controllers.Generation.Content = nil

	w := doJSON(r, http.MethodPost, "/api/user/courses/generate", token, `{"topic": "Go"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCourseIsolationBetweenUsers(t *testing.T) {
	r, token := setupTestServer(t)

	// User khác tạo course
	other := models.User{FullName: "Other", Email: "other@example.com", Role: models.RoleUser}
	require.NoError(t, config.DB.Create(&other).Error)
	course := models.Course{UserID: other.ID, Title: "Private", Status: models.CoursePublished}
	require.NoError(t, config.DB.Create(&course).Error)

	// Không xem được course của người khác
	w := doJSON(r, http.MethodGet, "/api/user/courses/"+course.ID.String(), token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/user/courses", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Courses []models.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Courses)
}

func TestAdminStatsRequiresRole(t *testing.T) {
	r, token := setupTestServer(t)

	// Student không vào được nhóm admin
	w := doJSON(r, http.MethodGet, "/api/admin/stats/overview", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := models.User{FullName: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, config.DB.Create(&admin).Error)
	adminToken, err := utils.GenerateToken(admin.ID.String(), string(admin.Role))
	require.NoError(t, err)

	published := models.Course{UserID: admin.ID, Title: "Done", Status: models.CoursePublished, GenerationDurationSeconds: 30}
	require.NoError(t, config.DB.Create(&published).Error)

	w = doJSON(r, http.MethodGet, "/api/admin/stats/overview", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Overview controllers.GenerationOverview `json:"overview"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, resp.Overview.TotalUsers, int64(2))
	assert.Equal(t, int64(1), resp.Overview.Published)
	assert.InDelta(t, 30, resp.Overview.AvgGenerationSec, 0.01)
}

func TestDeleteCourse(t *testing.T) {
	r, token := setupTestServer(t)

	var user models.User
	require.NoError(t, config.DB.First(&user, "email = ?", "test@example.com").Error)

	generating := models.Course{UserID: user.ID, Title: "Busy", Status: models.CourseGenerating}
	require.NoError(t, config.DB.Create(&generating).Error)
	done := models.Course{UserID: user.ID, Title: "Done", Status: models.CoursePublished}
	require.NoError(t, config.DB.Create(&done).Error)

	// Đang generate thì không cho xóa
	w := doJSON(r, http.MethodDelete, "/api/user/courses/"+generating.ID.String(), token, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/user/courses/"+done.ID.String(), token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	config.DB.Model(&models.Course{}).Where("id = ?", done.ID).Count(&count)
	assert.Zero(t, count)
}
