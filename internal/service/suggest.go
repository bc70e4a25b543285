package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/kgrange/marquee/internal/api"
)

// titleIndex implements sahilm/fuzzy.Source for zero-allocation matching
// over the catalog's title list.
type titleIndex struct {
	titles      []string
	lowerTitles []string
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *titleIndex) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of titles (implements fuzzy.Source)
func (idx *titleIndex) Len() int { return len(idx.titles) }

// Suggester offers search-as-you-type title completions from the full
// catalog title list, fetched once per session.
type Suggester struct {
	client *api.Client
	logger *slog.Logger

	mu      sync.RWMutex
	index   *titleIndex
	indexed bool
}

// NewSuggester creates an empty suggester. Call LoadTitles before
// requesting suggestions; until then Suggest returns nothing.
func NewSuggester(client *api.Client, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{
		client: client,
		logger: logger,
		index:  &titleIndex{},
	}
}

// LoadTitles fetches the catalog title list and builds the local index.
func (s *Suggester) LoadTitles(ctx context.Context) error {
	titles, err := s.client.Titles(ctx)
	if err != nil {
		return err
	}

	s.SetTitles(titles)
	return nil
}

// SetTitles replaces the index contents.
func (s *Suggester) SetTitles(titles []string) {
	lower := make([]string, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t)
	}

	s.mu.Lock()
	s.index = &titleIndex{titles: titles, lowerTitles: lower}
	s.indexed = true
	s.mu.Unlock()

	s.logger.Debug("indexed titles", "count", len(titles))
}

// Ready reports whether the title index has been loaded.
func (s *Suggester) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexed
}

// Suggest returns up to limit titles matching query, best matches first.
// Subsequence matches from the index come first; when there are none, a
// ranked fold-case pass catches transposition-style near misses.
func (s *Suggester) Suggest(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	s.mu.RLock()
	idx := s.index
	indexed := s.indexed
	s.mu.RUnlock()

	if !indexed || idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, idx)
	if len(matches) > 0 {
		if len(matches) > limit {
			matches = matches[:limit]
		}
		results := make([]string, len(matches))
		for i, m := range matches {
			results[i] = idx.titles[m.Index]
		}
		return results
	}

	// Fall back to ranked approximate matching.
	ranks := lfuzzy.RankFindNormalizedFold(query, idx.titles)
	sort.Sort(ranks)

	results := make([]string, 0, limit)
	for _, r := range ranks {
		results = append(results, r.Target)
		if len(results) == limit {
			break
		}
	}
	return results
}
