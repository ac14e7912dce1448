package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vnkhanh/ai-course-backend/models"
)

// Outline là khung sườn khóa học do model trả về ở stage 1,
// chỉ sống trong bộ nhớ của 1 lần chạy (không lưu DB)
type Outline struct {
	Chapters []OutlineChapter `json:"chapters"`
}

type OutlineChapter struct {
	Title            string   `json:"title"`
	Objectives       []string `json:"objectives"`
	KeyConcepts      []string `json:"keyConcepts"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
}

func (s *GenerationService) generateOutline(ctx context.Context, topic string) (*Outline, error) {
	prompt := fmt.Sprintf(`Create a detailed course outline for: "%s".

Include:
- 3-5 main chapters
- Learning objectives
- Key concepts per chapter
- Estimated reading time

Format as JSON:
{
  "chapters": [
    {
      "title": "string",
      "objectives": ["string"],
      "keyConcepts": ["string"],
      "estimatedMinutes": number
    }
  ]
}`, topic)

	raw, err := s.callProvider(ctx, prompt)
	if err != nil {
		return nil, err
	}
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("outline không parse được: %w", err)
	}

	var outline Outline
	if err := json.Unmarshal([]byte(payload), &outline); err != nil {
		return nil, fmt.Errorf("outline không đúng format: %w", err)
	}
	if len(outline.Chapters) == 0 {
		return nil, fmt.Errorf("outline không có chương nào")
	}

	return &outline, nil
}

// generateChapters sinh nội dung từng chương tuần tự theo outline.
// Tuần tự (không song song) để order_number khớp vị trí outline
// mà không cần khóa gì thêm.
func (s *GenerationService) generateChapters(ctx context.Context, courseID uuid.UUID, topic string, outline *Outline) error {
	chapters := make([]models.CourseChapter, 0, len(outline.Chapters))

	for i, ch := range outline.Chapters {
		prompt := fmt.Sprintf(`Write detailed chapter content for:

Topic: %s
Chapter: %s
Objectives: %s

Write 300-500 words covering:
- Introduction
- Key concepts explained
- Real-world examples
- Summary

Write in clear, educational style suitable for learners.`,
			topic, ch.Title, strings.Join(ch.Objectives, ", "))

		content, err := s.callProvider(ctx, prompt)
		if err != nil {
			return fmt.Errorf("chapter %d: %w", i+1, err)
		}

		readingTime := ch.EstimatedMinutes
		if readingTime <= 0 {
			readingTime = 10
		}
		chapters = append(chapters, models.CourseChapter{
			CourseID:             courseID,
			Title:                ch.Title,
			Content:              content,
			OrderNumber:          i + 1,
			EstimatedReadingTime: readingTime,
		})
	}

	return s.DB.Create(&chapters).Error
}

func (s *GenerationService) generateFlashcards(ctx context.Context, courseID uuid.UUID, topic string) error {
	prompt := fmt.Sprintf(`Create exactly 10 flashcards for studying "%s".
Respond with ONLY a JSON array in this format:
[{"question": "...", "answer": "..."}]`, topic)

	raw, err := s.callProvider(ctx, prompt)
	if err != nil {
		return err
	}
	payload, err := ExtractJSON(raw)
	if err != nil {
		return fmt.Errorf("flashcards không parse được: %w", err)
	}

	var items []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return fmt.Errorf("flashcards không đúng format: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("không có flashcard nào")
	}

	cards := make([]models.CourseFlashcard, 0, len(items))
	for _, it := range items {
		cards = append(cards, models.CourseFlashcard{
			CourseID:   courseID,
			Question:   it.Question,
			Answer:     it.Answer,
			Difficulty: "medium",
		})
	}
	return s.DB.Create(&cards).Error
}

func (s *GenerationService) generateMCQs(ctx context.Context, courseID uuid.UUID, topic string) error {
	prompt := fmt.Sprintf(`Create exactly 10 multiple-choice questions about "%s".
Respond with ONLY a JSON array in this format:
[{"question": "...", "options": ["A", "B", "C", "D"], "correct_answer": "A", "explanation": "..."}]
Each question has exactly 4 options and correct_answer must match one option verbatim.`, topic)

	raw, err := s.callProvider(ctx, prompt)
	if err != nil {
		return err
	}
	payload, err := ExtractJSON(raw)
	if err != nil {
		return fmt.Errorf("MCQ không parse được: %w", err)
	}

	var items []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return fmt.Errorf("MCQ không đúng format: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("không có câu hỏi nào")
	}

	questions := make([]models.CourseMCQ, 0, len(items))
	for _, it := range items {
		questions = append(questions, models.CourseMCQ{
			CourseID:      courseID,
			Question:      it.Question,
			Options:       datatypes.NewJSONSlice(it.Options),
			CorrectAnswer: it.CorrectAnswer,
			Explanation:   it.Explanation,
		})
	}
	return s.DB.Create(&questions).Error
}

// generateArticles sinh 3 bài: deep dive + key takeaways là văn xuôi,
// FAQ giữ nguyên dạng JSON trong cột content để frontend tự render
func (s *GenerationService) generateArticles(ctx context.Context, courseID uuid.UUID, topic string) error {
	deepDive, err := s.callProvider(ctx, fmt.Sprintf(
		`Write an in-depth article (1000+ words) exploring advanced aspects of "%s". Respond with the article text only.`, topic))
	if err != nil {
		return fmt.Errorf("deep dive: %w", err)
	}

	takeaways, err := s.callProvider(ctx, fmt.Sprintf(
		`Write a concise "key takeaways" article summarizing the most important points about "%s" as a structured list with short explanations. Respond with the article text only.`, topic))
	if err != nil {
		return fmt.Errorf("key takeaways: %w", err)
	}

	faqRaw, err := s.callProvider(ctx, fmt.Sprintf(
		`Create a FAQ for "%s". Respond with ONLY a JSON array: [{"question": "...", "answer": "..."}] with 8-10 entries.`, topic))
	if err != nil {
		return fmt.Errorf("faq: %w", err)
	}
	faq, err := ExtractJSON(faqRaw)
	if err != nil {
		return fmt.Errorf("faq không parse được: %w", err)
	}

	articles := []models.CourseArticle{
		{CourseID: courseID, ArticleType: models.ArticleDeepDive, Title: fmt.Sprintf("Deep Dive: %s", topic), Content: deepDive, ReadingTimeMinutes: 10},
		{CourseID: courseID, ArticleType: models.ArticleKeyTakeaways, Title: fmt.Sprintf("Key Takeaways: %s", topic), Content: takeaways, ReadingTimeMinutes: 3},
		{CourseID: courseID, ArticleType: models.ArticleFAQ, Title: fmt.Sprintf("FAQ: %s", topic), Content: faq, ReadingTimeMinutes: 5},
	}
	return s.DB.Create(&articles).Error
}

func (s *GenerationService) generateWordGames(ctx context.Context, courseID uuid.UUID, topic string) error {
	prompt := fmt.Sprintf(`Create exactly 15 vocabulary matching items for "%s".
Respond with ONLY a JSON array in this format:
[{"word": "...", "correct_definition": "...", "incorrect_options": ["...", "...", "..."]}]`, topic)

	raw, err := s.callProvider(ctx, prompt)
	if err != nil {
		return err
	}
	payload, err := ExtractJSON(raw)
	if err != nil {
		return fmt.Errorf("word games không parse được: %w", err)
	}

	var items []struct {
		Word              string   `json:"word"`
		CorrectDefinition string   `json:"correct_definition"`
		IncorrectOptions  []string `json:"incorrect_options"`
	}
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return fmt.Errorf("word games không đúng format: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("không có word game nào")
	}

	games := make([]models.CourseWordGame, 0, len(items))
	for _, it := range items {
		games = append(games, models.CourseWordGame{
			CourseID:         courseID,
			Word:             it.Word,
			Definition:       it.CorrectDefinition,
			IncorrectOptions: datatypes.NewJSONSlice(it.IncorrectOptions),
			Difficulty:       "medium",
		})
	}
	return s.DB.Create(&games).Error
}
