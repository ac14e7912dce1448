package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/ai-course-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 1 connection để các nhánh song song ghi tuần tự trên sqlite
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
	))
	return db
}

// fakeContent trả lời theo nội dung prompt, có thể ép lỗi 1 nhánh
type fakeContent struct {
	failOn string
}

func (f *fakeContent) Generate(ctx context.Context, prompt string) (string, error) {
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return "", errors.New("model unavailable")
	}

	switch {
	case strings.Contains(prompt, "course outline"):
		return `{"chapters": [
			{"title": "Basics", "objectives": ["read syntax"], "keyConcepts": ["vars"], "estimatedMinutes": 8},
			{"title": "Types", "objectives": ["model data"], "keyConcepts": ["structs"], "estimatedMinutes": 12},
			{"title": "Concurrency", "objectives": ["use goroutines"], "keyConcepts": ["channels"], "estimatedMinutes": 15},
			{"title": "Tooling", "objectives": ["manage deps"], "keyConcepts": ["go mod"]}
		]}`, nil
	case strings.Contains(prompt, "chapter content"):
		return "Chapter prose content.", nil
	case strings.Contains(prompt, "flashcards"):
		return fakeJSONItems(10, `{"question": "Q%d", "answer": "A%d"}`), nil
	case strings.Contains(prompt, "multiple-choice"):
		return fakeJSONItems(10, `{"question": "Q%d", "options": ["opt-a%d", "opt-b%d", "opt-c%d", "opt-d%d"], "correct_answer": "opt-b%d", "explanation": "because"}`), nil
	case strings.Contains(prompt, "in-depth article"):
		return "Deep dive prose.", nil
	case strings.Contains(prompt, "key takeaways"):
		return "Takeaways prose.", nil
	case strings.Contains(prompt, "Create a FAQ"):
		return "```json\n" + fakeJSONItems(8, `{"question": "FQ%d", "answer": "FA%d"}`) + "\n```", nil
	case strings.Contains(prompt, "podcast script"):
		return "Short podcast script.", nil
	case strings.Contains(prompt, "lecture script"):
		return "Long lecture script.", nil
	case strings.Contains(prompt, "vocabulary matching"):
		return fakeJSONItems(15, `{"word": "w%d", "correct_definition": "d%d", "incorrect_options": ["x%d", "y%d", "z%d"]}`), nil
	case strings.Contains(prompt, "follow-up topics"):
		return fakeJSONItems(5, `{"topic": "T%d", "description": "D%d"}`), nil
	}
	return "", fmt.Errorf("prompt không được fake hỗ trợ: %.60s", prompt)
}

func fakeJSONItems(n int, tpl string) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item := strings.ReplaceAll(tpl, "%d", fmt.Sprint(i))
		items = append(items, item)
	}
	return "[" + strings.Join(items, ",") + "]"
}

type fakeSpeech struct {
	err error
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3-bytes"), nil
}

type fakeSearch struct {
	results []SearchResult
	err     error
}

func (f *fakeSearch) Search(ctx context.Context, query string) ([]SearchResult, error) {
	return f.results, f.err
}

type fakeStore struct{}

func (fakeStore) UploadAudio(data []byte, objectPath, contentType string) (string, error) {
	return "https://cdn.example.com/" + objectPath, nil
}

// progressRecorder gom các update gửi qua Notify
type progressRecorder struct {
	mu      sync.Mutex
	updates []models.GenerationJob
}

func (p *progressRecorder) record(courseID string, job *models.GenerationJob) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, *job)
}

func (p *progressRecorder) snapshot() []models.GenerationJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.GenerationJob, len(p.updates))
	copy(out, p.updates)
	return out
}

func manySearchResults(n int) []SearchResult {
	out := make([]SearchResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, SearchResult{
			Title:       fmt.Sprintf("Result %d", i),
			URL:         fmt.Sprintf("https://site%d.example.org/docs", i),
			Description: "desc",
		})
	}
	return out
}

func newTestService(t *testing.T, db *gorm.DB, rec *progressRecorder) *GenerationService {
	t.Helper()
	return &GenerationService{
		DB:          db,
		Content:     &fakeContent{},
		Speech:      &fakeSpeech{},
		Search:      &fakeSearch{results: manySearchResults(8)},
		Storage:     fakeStore{},
		Notify:      rec.record,
		StepTimeout: 5 * time.Second,
	}
}

func waitForJob(t *testing.T, db *gorm.DB, courseID uuid.UUID) models.GenerationJob {
	t.Helper()
	var job models.GenerationJob
	require.Eventually(t, func() bool {
		if err := db.Where("course_id = ?", courseID).First(&job).Error; err != nil {
			return false
		}
		return job.Status == models.JobCompleted || job.Status == models.JobFailed
	}, 10*time.Second, 20*time.Millisecond)
	return job
}

func TestStartGenerationValidation(t *testing.T) {
	db := newTestDB(t)
	rec := &progressRecorder{}
	svc := newTestService(t, db, rec)

	_, _, err := svc.StartGeneration("", uuid.New())
	assert.Error(t, err)

	svc.Content = nil
	_, _, err = svc.StartGeneration("Go", uuid.New())
	assert.ErrorIs(t, err, ErrContentProviderMissing)
}

func TestGenerateCourseHappyPath(t *testing.T) {
	db := newTestDB(t)
	rec := &progressRecorder{}
	svc := newTestService(t, db, rec)

	course, job, err := svc.StartGeneration("Go concurrency", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.CourseGenerating, course.Status)
	assert.Equal(t, 5, job.ProgressPercentage)
	assert.Equal(t, "Starting parallel generation", job.CurrentStep)

	final := waitForJob(t, db, course.ID)
	require.Equal(t, models.JobCompleted, final.Status, "error: %s", final.ErrorMessage)
	assert.Equal(t, 100, final.ProgressPercentage)
	assert.Equal(t, "Course ready!", final.CurrentStep)
	require.NotNil(t, final.CompletedAt)

	var got models.Course
	require.NoError(t, db.First(&got, "id = ?", course.ID).Error)
	assert.Equal(t, models.CoursePublished, got.Status)
	assert.Equal(t, "Go concurrency", got.Title)
	assert.True(t, got.AudioGenerated)
	assert.True(t, got.ArticlesGenerated)
	assert.True(t, got.GamesGenerated)

	// Chương theo đúng thứ tự outline, reading time lấy từ outline
	var chapters []models.CourseChapter
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("order_number ASC").Find(&chapters).Error)
	require.Len(t, chapters, 4)
	for i, ch := range chapters {
		assert.Equal(t, i+1, ch.OrderNumber)
		assert.NotEmpty(t, ch.Content)
	}
	assert.Equal(t, "Basics", chapters[0].Title)
	assert.Equal(t, 8, chapters[0].EstimatedReadingTime)
	assert.Equal(t, 10, chapters[3].EstimatedReadingTime) // outline thiếu estimatedMinutes

	var flashcards []models.CourseFlashcard
	db.Where("course_id = ?", course.ID).Find(&flashcards)
	assert.Len(t, flashcards, 10)

	// Đáp án đúng phải nằm trong options
	var mcqs []models.CourseMCQ
	db.Where("course_id = ?", course.ID).Find(&mcqs)
	require.Len(t, mcqs, 10)
	for _, q := range mcqs {
		assert.Len(t, []string(q.Options), 4)
		assert.Contains(t, []string(q.Options), q.CorrectAnswer)
	}

	var articles []models.CourseArticle
	db.Where("course_id = ?", course.ID).Find(&articles)
	require.Len(t, articles, 3)
	readingTimes := map[models.ArticleType]int{}
	for _, a := range articles {
		readingTimes[a.ArticleType] = a.ReadingTimeMinutes
	}
	assert.Equal(t, 10, readingTimes[models.ArticleDeepDive])
	assert.Equal(t, 3, readingTimes[models.ArticleKeyTakeaways])
	assert.Equal(t, 5, readingTimes[models.ArticleFAQ])

	var games []models.CourseWordGame
	db.Where("course_id = ?", course.ID).Find(&games)
	assert.Len(t, games, 15)

	// 2 bản audio với thời lượng danh nghĩa theo loại
	var audio []models.CourseAudio
	db.Where("course_id = ?", course.ID).Find(&audio)
	require.Len(t, audio, 2)
	durations := map[models.AudioType]int{}
	for _, a := range audio {
		durations[a.AudioType] = a.DurationSeconds
		assert.Contains(t, a.AudioURL, "https://cdn.example.com/")
	}
	assert.Equal(t, 300, durations[models.AudioShortPodcast])
	assert.Equal(t, 1200, durations[models.AudioFullLecture])

	// 8 kết quả search -> giữ 5, provider là hostname
	var resources []models.CourseResource
	db.Where("course_id = ?", course.ID).Find(&resources)
	require.Len(t, resources, 5)
	for _, r := range resources {
		assert.Regexp(t, `^site\d\.example\.org$`, r.Provider)
	}

	// Relevance giảm dần theo thứ tự trả về
	var suggestions []models.CourseSuggestion
	db.Where("course_id = ?", course.ID).Order("relevance_score DESC").Find(&suggestions)
	require.Len(t, suggestions, 5)
	for i, s := range suggestions {
		assert.Equal(t, 5-i, s.RelevanceScore)
	}

	// Progress chỉ tăng, kết thúc ở 100
	updates := rec.snapshot()
	require.NotEmpty(t, updates)
	prev := 0
	for _, u := range updates {
		assert.GreaterOrEqual(t, u.ProgressPercentage, prev)
		prev = u.ProgressPercentage
	}
	assert.Equal(t, 100, updates[len(updates)-1].ProgressPercentage)
}

func TestAudioFailureIsNonFatal(t *testing.T) {
	db := newTestDB(t)
	rec := &progressRecorder{}
	svc := newTestService(t, db, rec)
	svc.Speech = &fakeSpeech{err: errors.New("tts down")}

	course, _, err := svc.StartGeneration("Kubernetes", uuid.New())
	require.NoError(t, err)

	final := waitForJob(t, db, course.ID)
	assert.Equal(t, models.JobCompleted, final.Status)

	var got models.Course
	require.NoError(t, db.First(&got, "id = ?", course.ID).Error)
	assert.Equal(t, models.CoursePublished, got.Status)
	assert.False(t, got.AudioGenerated)

	var count int64
	db.Model(&models.CourseAudio{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSearchFailureIsNonFatal(t *testing.T) {
	db := newTestDB(t)
	rec := &progressRecorder{}
	svc := newTestService(t, db, rec)
	svc.Search = &fakeSearch{err: errors.New("search down")}

	course, _, err := svc.StartGeneration("Rust", uuid.New())
	require.NoError(t, err)

	final := waitForJob(t, db, course.ID)
	assert.Equal(t, models.JobCompleted, final.Status)

	var count int64
	db.Model(&models.CourseResource{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
}

func TestContentBranchFailureFailsRun(t *testing.T) {
	db := newTestDB(t)
	rec := &progressRecorder{}
	svc := newTestService(t, db, rec)
	svc.Content = &fakeContent{failOn: "multiple-choice"}

	course, _, err := svc.StartGeneration("SQL", uuid.New())
	require.NoError(t, err)

	final := waitForJob(t, db, course.ID)
	assert.Equal(t, models.JobFailed, final.Status)
	assert.Contains(t, final.ErrorMessage, "model unavailable")
	require.NotNil(t, final.CompletedAt)

	var got models.Course
	require.NoError(t, db.First(&got, "id = ?", course.ID).Error)
	assert.Equal(t, models.CourseFailed, got.Status)

	var count int64
	db.Model(&models.CourseMCQ{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Zero(t, count)
}

func TestOptionalProvidersMissing(t *testing.T) {
	db := newTestDB(t)
	rec := &progressRecorder{}
	svc := newTestService(t, db, rec)
	svc.Speech = nil
	svc.Search = nil

	course, _, err := svc.StartGeneration("Docker", uuid.New())
	require.NoError(t, err)

	final := waitForJob(t, db, course.ID)
	assert.Equal(t, models.JobCompleted, final.Status)

	var audioCount, resourceCount int64
	db.Model(&models.CourseAudio{}).Where("course_id = ?", course.ID).Count(&audioCount)
	db.Model(&models.CourseResource{}).Where("course_id = ?", course.ID).Count(&resourceCount)
	assert.Zero(t, audioCount)
	assert.Zero(t, resourceCount)

	var got models.Course
	require.NoError(t, db.First(&got, "id = ?", course.ID).Error)
	assert.Equal(t, models.CoursePublished, got.Status)
	assert.False(t, got.AudioGenerated)
}

func TestTruncateForSpeech(t *testing.T) {
	assert.Equal(t, "abc", truncateForSpeech("abc", 5000))

	long := strings.Repeat("x", 6000)
	assert.Len(t, truncateForSpeech(long, 5000), 5000)

	// Không cắt giữa ký tự nhiều byte
	viet := strings.Repeat("ệ", 2000) // 3 byte / ký tự
	got := truncateForSpeech(viet, 5000)
	assert.LessOrEqual(t, len(got), 5000)
	assert.Zero(t, len(got)%3)
}
