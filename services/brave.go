package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// BraveSearch gọi Brave Search web API (SearchProvider).
// Không có SDK chính thức nên gọi HTTP trực tiếp.
type BraveSearch struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewBraveSearchFromEnv trả về nil nếu BRAVE_SEARCH_API_KEY chưa cấu hình
func NewBraveSearchFromEnv() *BraveSearch {
	key := os.Getenv("BRAVE_SEARCH_API_KEY")
	if key == "" {
		return nil
	}
	return &BraveSearch{
		APIKey:  key,
		BaseURL: "https://api.search.brave.com/res/v1/web/search",
		Client:  &http.Client{},
	}
}

func (b *BraveSearch) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Add("q", query)

	reqURL := fmt.Sprintf("%s?%s", b.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	client := b.Client
	if client == nil {
		client = &http.Client{}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lỗi gọi Brave Search: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Brave Search lỗi %d: %s", resp.StatusCode, string(body))
	}

	var data struct {
		Web struct {
			Results []SearchResult `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("lỗi đọc JSON từ Brave Search: %v", err)
	}

	return data.Web.Results, nil
}
