package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/poster"
	"github.com/kgrange/marquee/internal/service"
)

// Command factories for async operations

// DebounceDelay is how long typing must pause before a search fires.
const DebounceDelay = 400 * time.Millisecond

// LoginCmd attempts a login
func LoginCmd(svc *service.AccountService, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := svc.Login(ctx, username, password)
		return LoginResultMsg{Session: sess, Err: err}
	}
}

// RegisterCmd attempts to create an account
func RegisterCmd(svc *service.AccountService, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msg, err := svc.Register(ctx, username, email, password)
		return RegisterResultMsg{Message: msg, Err: err}
	}
}

// LoadTrendingCmd loads one page of the trending catalog. With append set,
// the page is added below what is already shown instead of replacing it.
func LoadTrendingCmd(svc *service.MovieService, page int, append bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movies, err := svc.Trending(ctx, page)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return SessionExpiredMsg{}
			}
			return ErrMsg{Err: err, Context: "loading trending movies"}
		}
		return TrendingLoadedMsg{Movies: movies, Page: page, Append: append}
	}
}

// DebounceCmd arms the search debounce timer for keystroke seq
func DebounceCmd(seq int) tea.Cmd {
	return tea.Tick(DebounceDelay, func(time.Time) tea.Msg {
		return DebounceElapsedMsg{Seq: seq}
	})
}

// SearchCmd runs a search tagged with its request generation
func SearchCmd(svc *service.MovieService, query string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movies, err := svc.Search(ctx, query)
		if err != nil && errors.Is(err, domain.ErrSessionExpired) {
			return SessionExpiredMsg{}
		}
		return SearchResultsMsg{Movies: movies, Query: query, Gen: gen, Err: err}
	}
}

// RecommendCmd loads recommendations for the given subject movie
func RecommendCmd(svc *service.MovieService, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movies, err := svc.Recommend(ctx, title)
		if err != nil && errors.Is(err, domain.ErrSessionExpired) {
			return SessionExpiredMsg{}
		}
		return RecommendationsMsg{Subject: title, Movies: movies, Err: err}
	}
}

// ResolvePosterCmd resolves and verifies a poster URL for a title.
// Failures surface as a PosterResolvedMsg with Err set; the card keeps its
// placeholder and no error is shown.
func ResolvePosterCmd(resolver *poster.Resolver, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		url, err := resolver.Resolve(ctx, title)
		return PosterResolvedMsg{Title: title, URL: url, Err: err}
	}
}

// LoadTitlesCmd builds the suggestion index from the catalog title list
func LoadTitlesCmd(svc *service.Suggester) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		err := svc.LoadTitles(ctx)
		if err != nil && errors.Is(err, domain.ErrSessionExpired) {
			return SessionExpiredMsg{}
		}
		return TitlesReadyMsg{Err: err}
	}
}

// KeySource provides the poster lookup key. Implemented by api.Client.
type KeySource interface {
	TMDBKey(ctx context.Context) (string, error)
}

// FetchTMDBKeyCmd fetches the poster lookup key from the backend when the
// local config does not provide one
func FetchTMDBKeyCmd(client KeySource, tmdb *poster.TMDBClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		key, err := client.TMDBKey(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				return SessionExpiredMsg{}
			}
			return TMDBKeyMsg{Err: err}
		}
		tmdb.SetAPIKey(key)
		return TMDBKeyMsg{Key: key}
	}
}

// ClearStatusCmd clears the status line after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
