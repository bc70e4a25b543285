// Package poster resolves movie titles to verified poster image URLs via
// TMDB, caching each resolution for the rest of the session.
package poster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	tmdbBaseURL   = "https://api.themoviedb.org/3"
	tmdbImageBase = "https://image.tmdb.org/t/p/w500"
)

// TMDBClient is a minimal TMDB search client. The API key may be set after
// construction; the dashboard fetches it from the backend when the local
// config leaves it empty.
type TMDBClient struct {
	mu         sync.RWMutex
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTMDBClient creates a TMDB client. An empty key is allowed; lookups fail
// with ErrPosterUnavailable until one is set.
func NewTMDBClient(apiKey string) *TMDBClient {
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: tmdbBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetAPIKey replaces the API key.
func (c *TMDBClient) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

// HasKey reports whether a lookup key is configured.
func (c *TMDBClient) HasKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

// PosterPath searches TMDB for title and returns the first result's poster
// path, or "" when there are no results or the first result has no poster.
func (c *TMDBClient) PosterPath(ctx context.Context, title string) (string, error) {
	c.mu.RLock()
	apiKey := c.apiKey
	baseURL := c.baseURL
	c.mu.RUnlock()

	if apiKey == "" {
		return "", fmt.Errorf("tmdb: no API key configured")
	}

	q := url.Values{}
	q.Set("api_key", apiKey)
	q.Set("query", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/search/movie?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tmdb: HTTP %d searching %q", resp.StatusCode, title)
	}

	var result struct {
		Results []struct {
			PosterPath string `json:"poster_path"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("tmdb: decode response: %w", err)
	}

	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].PosterPath, nil
}
