package domain

import (
	"fmt"
	"strings"
)

// Movie is a single catalog entry as returned by the backend. Fields mirror
// the backend JSON exactly; values are never mutated after decoding.
type Movie struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	Genres      string  `json:"genres,omitempty"` // raw list-literal string, e.g. "['Sci-Fi', 'Action']"
	Tagline     string  `json:"tagline,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	Popularity  float64 `json:"popularity,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
}

// GenreTags parses the raw genre string into display tags.
// The catalog data stores genres as a Python-style list literal.
func (m Movie) GenreTags() []string {
	raw := strings.TrimSpace(m.Genres)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return nil
	}

	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.Trim(strings.TrimSpace(part), `'"`)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// RatingLabel formats the community rating for display, e.g. "⭐ 8.1".
// Returns an empty string when no rating is present.
func (m Movie) RatingLabel() string {
	if m.VoteAverage <= 0 {
		return ""
	}
	return fmt.Sprintf("⭐ %.1f", m.VoteAverage)
}

// ShortOverview truncates the synopsis for card display.
func (m Movie) ShortOverview(max int) string {
	if max <= 0 || len(m.Overview) <= max {
		return m.Overview
	}
	runes := []rune(m.Overview)
	if len(runes) <= max {
		return m.Overview
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
