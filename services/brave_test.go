package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBraveSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "golang tutorial documentation", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web": {"results": [
			{"title": "Go Docs", "url": "https://go.dev/doc", "description": "Official docs"},
			{"title": "Tour", "url": "https://go.dev/tour", "description": "Interactive tour"}
		]}}`))
	}))
	defer server.Close()

	b := &BraveSearch{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}

	results, err := b.Search(context.Background(), "golang tutorial documentation")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go Docs", results[0].Title)
	assert.Equal(t, "https://go.dev/doc", results[0].URL)
}

func TestBraveSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	b := &BraveSearch{APIKey: "test-key", BaseURL: server.URL, Client: server.Client()}

	_, err := b.Search(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
