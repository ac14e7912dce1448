package services

import "github.com/vnkhanh/ai-course-backend/utils"

// SupabaseAudioStore lưu audio lên Supabase Storage (bucket course-audio)
type SupabaseAudioStore struct{}

func (SupabaseAudioStore) UploadAudio(data []byte, objectPath string, contentType string) (string, error) {
	return utils.UploadAudioToSupabase(data, objectPath, contentType)
}
