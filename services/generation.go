package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/vnkhanh/ai-course-backend/models"
	"github.com/vnkhanh/ai-course-backend/ws"
)

// GenerationService điều phối toàn bộ pipeline sinh khóa học:
// outline → 6 nhánh content song song → audio → resources → suggestions.
// Speech và Search có thể nil (bỏ qua stage tương ứng, không lỗi).
type GenerationService struct {
	DB      *gorm.DB
	Content ContentProvider
	Speech  SpeechProvider
	Search  SearchProvider
	Storage AudioStore

	// Notify được gọi sau mỗi lần ghi progress, trước khi sang stage kế
	Notify func(courseID string, job *models.GenerationJob)

	// Deadline cho từng lần gọi provider
	StepTimeout time.Duration
}

func NewGenerationService(db *gorm.DB) *GenerationService {
	timeout := 120 * time.Second
	if v := os.Getenv("GENERATION_STEP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}

	s := &GenerationService{
		DB:          db,
		Storage:     SupabaseAudioStore{},
		Notify:      ws.SendGenerationUpdate,
		StepTimeout: timeout,
	}
	if g := NewGeminiFromEnv(); g != nil {
		s.Content = g
	}
	if t := NewGoogleTTSFromEnv(); t != nil {
		s.Speech = t
	}
	if b := NewBraveSearchFromEnv(); b != nil {
		s.Search = b
	}
	return s
}

var ErrContentProviderMissing = errors.New("content provider chưa được cấu hình (thiếu GEMINI_API_KEY)")

// StartGeneration tạo Course + GenerationJob rồi trả về NGAY,
// pipeline chạy tiếp trong goroutine riêng. Caller theo dõi tiến trình
// qua ws hoặc poll job, không chờ kết quả ở đây.
func (s *GenerationService) StartGeneration(topic string, userID uuid.UUID) (*models.Course, *models.GenerationJob, error) {
	if topic == "" {
		return nil, nil, errors.New("topic không được để trống")
	}
	if s.Content == nil {
		return nil, nil, ErrContentProviderMissing
	}

	course := models.Course{
		UserID:  userID,
		Title:   topic,
		Slug:    slug.Make(topic),
		Status:  models.CourseGenerating,
		Summary: fmt.Sprintf("AI-generated course on %s", topic),
	}
	if err := s.DB.Create(&course).Error; err != nil {
		return nil, nil, err
	}

	job := models.GenerationJob{
		UserID:             userID,
		CourseID:           course.ID,
		JobType:            "course_creation",
		Status:             models.JobProcessing,
		ProgressPercentage: 5,
		CurrentStep:        "Starting parallel generation",
	}
	if err := s.DB.Create(&job).Error; err != nil {
		return nil, nil, err
	}

	log.Printf("Bắt đầu generation cho topic %q (course=%s job=%s)", topic, course.ID, job.ID)

	go s.runPipeline(course.ID, job.ID, topic)

	return &course, &job, nil
}

// runPipeline là phần chạy nền. Mọi lỗi thoát ra (kể cả panic) đều được
// bắt ở đây và ghi đúng MỘT lần trạng thái kết thúc cho job.
func (s *GenerationService) runPipeline(courseID, jobID uuid.UUID, topic string) {
	start := time.Now()

	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("panic trong pipeline: %v", r)
			}
		}()
		runErr = s.generate(courseID, topic)
	}()

	if runErr != nil {
		log.Printf("Generation lỗi (course=%s): %v", courseID, runErr)
		s.markFailed(courseID, jobID, runErr)
		return
	}

	duration := int(time.Since(start).Seconds())
	s.markCompleted(courseID, jobID, duration)
	log.Printf("Course %s generated in %ds", courseID, duration)
}

// generate chạy các stage tuần tự; stage 2 fan-out 6 nhánh song song
func (s *GenerationService) generate(courseID uuid.UUID, topic string) error {
	ctx := context.Background()

	// Stage 1: outline
	s.updateProgress(courseID, 10, "Generating course outline...")
	outline, err := s.generateOutline(ctx, topic)
	if err != nil {
		return fmt.Errorf("outline: %w", err)
	}
	log.Printf("Outline có %d chương (course=%s)", len(outline.Chapters), courseID)
	s.updateProgress(courseID, 20, "Outline created! Generating content...")

	// Stage 2: 6 nhánh song song, all-or-nothing — nhánh nào lỗi là
	// cả run fail (không retry từng nhánh)
	var shortScript, longScript string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.generateChapters(gctx, courseID, topic, outline) })
	g.Go(func() error { return s.generateFlashcards(gctx, courseID, topic) })
	g.Go(func() error { return s.generateMCQs(gctx, courseID, topic) })
	g.Go(func() error { return s.generateArticles(gctx, courseID, topic) })
	g.Go(func() error { return s.generateWordGames(gctx, courseID, topic) })
	g.Go(func() error {
		var err error
		shortScript, longScript, err = s.generateAudioScripts(gctx, topic)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	s.updateProgress(courseID, 60, "Content generated! Creating audio...")

	// Stage 3: audio (tùy chọn, lỗi không làm fail run)
	if s.Speech != nil {
		var ag errgroup.Group
		shortOK, longOK := false, false
		ag.Go(func() error {
			if err := s.generateTTS(ctx, courseID, shortScript, models.AudioShortPodcast); err != nil {
				log.Printf("TTS %s lỗi (course=%s): %v", models.AudioShortPodcast, courseID, err)
				return nil
			}
			shortOK = true
			return nil
		})
		ag.Go(func() error {
			if err := s.generateTTS(ctx, courseID, longScript, models.AudioFullLecture); err != nil {
				log.Printf("TTS %s lỗi (course=%s): %v", models.AudioFullLecture, courseID, err)
				return nil
			}
			longOK = true
			return nil
		})
		ag.Wait()

		if shortOK && longOK {
			s.DB.Model(&models.Course{}).Where("id = ?", courseID).
				Update("audio_generated", true)
		}
	}
	s.updateProgress(courseID, 80, "Finding resources...")

	// Stage 4: resources (tùy chọn, lỗi không làm fail run)
	if s.Search != nil {
		if err := s.findResources(ctx, courseID, topic); err != nil {
			log.Printf("Tìm resources lỗi (course=%s): %v", courseID, err)
		}
	}
	s.updateProgress(courseID, 90, "Generating suggestions...")

	// Stage 5: suggestions — lỗi là fatal (không catch cục bộ)
	if err := s.generateSuggestions(ctx, courseID, topic); err != nil {
		return fmt.Errorf("suggestions: %w", err)
	}

	return nil
}

// updateProgress ghi progress + step vào job rồi broadcast cho observer.
// Phải xong broadcast trước khi stage kế bắt đầu để UI không bị nhảy cóc.
func (s *GenerationService) updateProgress(courseID uuid.UUID, percent int, step string) {
	s.DB.Model(&models.GenerationJob{}).
		Where("course_id = ?", courseID).
		Updates(map[string]interface{}{
			"progress_percentage": percent,
			"current_step":        step,
		})

	s.notifyJob(courseID)
}

func (s *GenerationService) notifyJob(courseID uuid.UUID) {
	if s.Notify == nil {
		return
	}
	var job models.GenerationJob
	if err := s.DB.Where("course_id = ?", courseID).First(&job).Error; err != nil {
		return
	}
	s.Notify(courseID.String(), &job)
}

func (s *GenerationService) markCompleted(courseID, jobID uuid.UUID, durationSeconds int) {
	s.DB.Model(&models.Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"status":                      models.CoursePublished,
		"generation_duration_seconds": durationSeconds,
		"articles_generated":          true,
		"games_generated":             true,
	})

	now := time.Now()
	s.DB.Model(&models.GenerationJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":              models.JobCompleted,
		"progress_percentage": 100,
		"current_step":        "Course ready!",
		"completed_at":        &now,
	})

	s.notifyJob(courseID)
	ws.BroadcastCourseListChanged()
}

func (s *GenerationService) markFailed(courseID, jobID uuid.UUID, runErr error) {
	now := time.Now()
	s.DB.Model(&models.GenerationJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":        models.JobFailed,
		"error_message": runErr.Error(),
		"completed_at":  &now,
	})

	// Course cũng chuyển failed để UI không coi là đang chạy mãi
	s.DB.Model(&models.Course{}).Where("id = ?", courseID).
		Update("status", models.CourseFailed)

	s.notifyJob(courseID)
	ws.BroadcastCourseListChanged()
}

// callProvider gọi ContentProvider với deadline riêng cho từng call
func (s *GenerationService) callProvider(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.StepTimeout)
	defer cancel()
	return s.Content.Generate(callCtx, prompt)
}
