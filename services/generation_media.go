package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/ai-course-backend/models"
)

const (
	// Giới hạn ký tự gửi sang TTS cho 1 bản audio
	ttsMaxChars = 5000

	defaultVoice = "en-US-Chirp3-HD-Aoede"

	shortPodcastDuration = 300  // 5 phút
	fullLectureDuration  = 1200 // 20 phút
)

// generateAudioScripts sinh 2 kịch bản đọc: podcast ngắn (~700 từ)
// và bài giảng đầy đủ (~3000 từ). Chạy trong nhánh content stage 2,
// TTS thật để tới stage 3.
func (s *GenerationService) generateAudioScripts(ctx context.Context, topic string) (string, string, error) {
	short, err := s.callProvider(ctx, fmt.Sprintf(
		`Write a conversational podcast script (about 700 words) introducing "%s" to a curious listener. Plain spoken text only, no stage directions, no markdown.`, topic))
	if err != nil {
		return "", "", fmt.Errorf("short script: %w", err)
	}

	long, err := s.callProvider(ctx, fmt.Sprintf(
		`Write a full lecture script (about 3000 words) teaching "%s" from fundamentals to advanced concepts. Plain spoken text only, no stage directions, no markdown.`, topic))
	if err != nil {
		return "", "", fmt.Errorf("long script: %w", err)
	}

	return short, long, nil
}

// generateTTS đọc script thành MP3, upload lên storage rồi lưu bản ghi audio.
// Lỗi ở đây không làm fail cả run - caller chỉ log lại.
func (s *GenerationService) generateTTS(ctx context.Context, courseID uuid.UUID, script string, audioType models.AudioType) error {
	if script == "" {
		return errors.New("script rỗng")
	}
	if s.Storage == nil {
		return errors.New("audio storage chưa được cấu hình")
	}

	text := truncateForSpeech(script, ttsMaxChars)

	callCtx, cancel := context.WithTimeout(ctx, s.StepTimeout)
	defer cancel()
	data, err := s.Speech.Synthesize(callCtx, text, defaultVoice)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	objectPath := fmt.Sprintf("%s/%s_%d.mp3", courseID, audioType, time.Now().UnixMilli())
	audioURL, err := s.Storage.UploadAudio(data, objectPath, "audio/mpeg")
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	duration := shortPodcastDuration
	if audioType == models.AudioFullLecture {
		duration = fullLectureDuration
	}

	return s.DB.Create(&models.CourseAudio{
		CourseID:        courseID,
		AudioType:       audioType,
		AudioURL:        audioURL,
		ScriptText:      script,
		DurationSeconds: duration,
		VoiceUsed:       defaultVoice,
	}).Error
}

// truncateForSpeech cắt text theo số byte nhưng không cắt giữa 1 ký tự UTF-8
func truncateForSpeech(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

// findResources tìm tài liệu tham khảo qua web search, lấy tối đa 5 kết quả.
// Provider của mỗi resource là hostname của URL.
func (s *GenerationService) findResources(ctx context.Context, courseID uuid.UUID, topic string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.StepTimeout)
	defer cancel()

	results, err := s.Search.Search(callCtx, fmt.Sprintf("%s tutorial documentation", topic))
	if err != nil {
		return err
	}
	if len(results) > 5 {
		results = results[:5]
	}
	if len(results) == 0 {
		return nil
	}

	resources := make([]models.CourseResource, 0, len(results))
	for _, r := range results {
		provider := ""
		if u, err := url.Parse(r.URL); err == nil {
			provider = u.Hostname()
		}
		resources = append(resources, models.CourseResource{
			CourseID:    courseID,
			Title:       r.Title,
			Type:        "article",
			URL:         r.URL,
			Description: r.Description,
			Provider:    provider,
		})
	}
	return s.DB.Create(&resources).Error
}

// generateSuggestions sinh 5 chủ đề học tiếp theo, relevance giảm dần
// theo thứ tự model trả về (5, 4, 3, ...)
func (s *GenerationService) generateSuggestions(ctx context.Context, courseID uuid.UUID, topic string) error {
	prompt := fmt.Sprintf(`Suggest exactly 5 follow-up topics to study after completing a course on "%s".
Respond with ONLY a JSON array in this format:
[{"topic": "...", "description": "..."}]
Order from most to least relevant.`, topic)

	raw, err := s.callProvider(ctx, prompt)
	if err != nil {
		return err
	}
	payload, err := ExtractJSON(raw)
	if err != nil {
		return fmt.Errorf("suggestions không parse được: %w", err)
	}

	var items []struct {
		Topic       string `json:"topic"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return fmt.Errorf("suggestions không đúng format: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("không có suggestion nào")
	}

	suggestions := make([]models.CourseSuggestion, 0, len(items))
	for i, it := range items {
		suggestions = append(suggestions, models.CourseSuggestion{
			CourseID:              courseID,
			SuggestionTopic:       it.Topic,
			SuggestionDescription: it.Description,
			RelevanceScore:        5 - i,
		})
	}
	return s.DB.Create(&suggestions).Error
}
