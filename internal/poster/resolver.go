package poster

import (
	"context"
	"image"
	"log/slog"
	"net/http"
	"sync"
	"time"

	// Poster formats served by the image CDN
	_ "image/jpeg"
	_ "image/png"

	"github.com/kgrange/marquee/internal/domain"
)

// Lookup finds a poster path for a title. Implemented by TMDBClient.
type Lookup interface {
	PosterPath(ctx context.Context, title string) (string, error)
}

// Resolver maps a movie title to a verified poster URL. Entries are
// populated lazily and never evicted within a session. A URL is committed
// only after the image bytes have been fetched and decoded successfully, so
// a cached URL is always one that rendered.
//
// Concurrent lookups for the same uncached title are tolerated: the same
// title always resolves to the same URL, so the duplicate write is
// idempotent and last-write-wins is safe. Failures are not cached; a later
// resolve for the same title retries the lookup.
type Resolver struct {
	lookup     Lookup
	imageBase  string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewResolver creates a poster resolver over the given lookup service.
func NewResolver(lookup Lookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		lookup:    lookup,
		imageBase: tmdbImageBase,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
		cache:  make(map[string]string),
	}
}

// Cached returns the resolved URL for title without any network activity.
func (r *Resolver) Cached(title string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	url, ok := r.cache[title]
	return url, ok
}

// Resolve returns the poster URL for title, consulting the cache first and
// otherwise performing the external lookup followed by load verification.
// Returns domain.ErrPosterUnavailable when no verifiable poster exists;
// callers degrade to the placeholder silently.
func (r *Resolver) Resolve(ctx context.Context, title string) (string, error) {
	if url, ok := r.Cached(title); ok {
		return url, nil
	}

	path, err := r.lookup.PosterPath(ctx, title)
	if err != nil {
		r.logger.Debug("poster lookup failed", "title", title, "error", err)
		return "", domain.ErrPosterUnavailable
	}
	if path == "" {
		return "", domain.ErrPosterUnavailable
	}

	url := r.imageBase + path
	if err := r.verify(ctx, url); err != nil {
		r.logger.Debug("poster verification failed", "title", title, "url", url, "error", err)
		return "", domain.ErrPosterUnavailable
	}

	r.mu.Lock()
	r.cache[title] = url
	r.mu.Unlock()

	return url, nil
}

// verify fetches the image bytes and checks that they decode, the
// equivalent of waiting for a successful image load before applying the URL.
func (r *Resolver) verify(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ErrPosterUnavailable
	}

	_, _, err = image.DecodeConfig(resp.Body)
	return err
}
