package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider gọi Gemini để sinh text (ContentProvider chính của hệ thống)
type GeminiProvider struct {
	APIKey string
	Model  string
}

// NewGeminiFromEnv trả về nil nếu GEMINI_API_KEY chưa cấu hình
func NewGeminiFromEnv() *GeminiProvider {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil
	}
	return &GeminiProvider{
		APIKey: key,
		Model:  "gemini-2.0-flash",
	}
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("không thể tạo Gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("lỗi Gemini xử lý: %v", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini không trả kết quả hợp lệ")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
