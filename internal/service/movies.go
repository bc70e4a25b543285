package service

import (
	"context"
	"log/slog"

	"github.com/kgrange/marquee/internal/api"
	"github.com/kgrange/marquee/internal/domain"
)

const (
	// trendingPageSize matches the backend default page size.
	trendingPageSize = 20

	// recommendCount is how many recommendations a modal shows.
	recommendCount = 12
)

// MovieService retrieves trending, search, and recommendation data.
type MovieService struct {
	client *api.Client
	logger *slog.Logger
}

// NewMovieService creates a new movie service.
func NewMovieService(client *api.Client, logger *slog.Logger) *MovieService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieService{
		client: client,
		logger: logger,
	}
}

// Trending returns one page of the trending catalog, most popular first.
func (s *MovieService) Trending(ctx context.Context, page int) ([]domain.Movie, error) {
	if page < 1 {
		page = 1
	}

	movies, err := s.client.Trending(ctx, page, trendingPageSize)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("loaded trending page", "page", page, "count", len(movies))
	return movies, nil
}

// Search runs a server-side search for query.
func (s *MovieService) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	movies, err := s.client.SearchMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search complete", "query", query, "results", len(movies))
	return movies, nil
}

// Recommend returns movies similar to the given title.
func (s *MovieService) Recommend(ctx context.Context, title string) ([]domain.Movie, error) {
	movies, err := s.client.Recommend(ctx, title, recommendCount)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("loaded recommendations", "title", title, "count", len(movies))
	return movies, nil
}
