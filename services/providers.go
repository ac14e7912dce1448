package services

import "context"

// Các provider bên ngoài (AI sinh nội dung, TTS, web search, object storage)
// được gói sau interface để orchestrator không phụ thuộc vendor cụ thể
// và để test bằng fake.

type ContentProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SpeechProvider interface {
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}

type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// AudioStore lưu file audio đã synthesize và trả về public URL.
type AudioStore interface {
	UploadAudio(data []byte, objectPath string, contentType string) (string, error)
}
