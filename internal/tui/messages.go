package tui

import (
	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/session"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// LoginResultMsg carries the outcome of a login attempt
type LoginResultMsg struct {
	Session session.Session
	Err     error
}

// RegisterResultMsg carries the outcome of a registration attempt
type RegisterResultMsg struct {
	Message string
	Err     error
}

// SessionExpiredMsg signals that the backend rejected the credential.
// The active view is abandoned and the login screen takes over.
type SessionExpiredMsg struct{}

// TrendingLoadedMsg signals that a trending catalog page has arrived
type TrendingLoadedMsg struct {
	Movies []domain.Movie
	Page   int
	Append bool
}

// DebounceElapsedMsg fires when a search debounce timer elapses. Seq
// identifies the keystroke that armed the timer; a stale Seq means the
// timer was superseded and the message is dropped.
type DebounceElapsedMsg struct {
	Seq int
}

// SearchResultsMsg carries search results tagged with the request
// generation. Results from an older generation are discarded.
type SearchResultsMsg struct {
	Movies []domain.Movie
	Query  string
	Gen    int
	Err    error
}

// RecommendationsMsg carries recommendations for a subject movie
type RecommendationsMsg struct {
	Subject string
	Movies  []domain.Movie
	Err     error
}

// PosterResolvedMsg signals that a poster URL has been verified for a title
type PosterResolvedMsg struct {
	Title string
	URL   string
	Err   error
}

// TitlesReadyMsg signals that the suggestion index has been built
type TitlesReadyMsg struct {
	Err error
}

// TMDBKeyMsg signals that the poster lookup key has been fetched
type TMDBKeyMsg struct {
	Key string
	Err error
}

// ClearStatusMsg clears the transient status line
type ClearStatusMsg struct{}
