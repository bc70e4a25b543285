package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgrange/marquee/internal/api"
	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/poster"
	"github.com/kgrange/marquee/internal/service"
	"github.com/kgrange/marquee/internal/session"
)

func newTestModel(t *testing.T, handler http.Handler) Model {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Establish("tok", "frank"))

	client := api.NewClient(srv.URL, store, nil)
	tmdb := poster.NewTMDBClient("key")

	return NewModel(Services{
		Accounts:  service.NewAccountService(client, store, nil),
		Movies:    service.NewMovieService(client, nil),
		Suggester: service.NewSuggester(client, nil),
		Resolver:  poster.NewResolver(tmdb, nil),
		TMDB:      tmdb,
		KeySource: client,
	}, nil)
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeInto(m Model, text string) Model {
	for _, r := range text {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestStartsOnDashboardWithSavedSession(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	assert.Equal(t, stateBrowse, m.state)
	assert.Equal(t, "frank", m.username)
}

func TestSessionExpiredReturnsToLogin(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())

	m, _ = update(m, SessionExpiredMsg{})
	assert.Equal(t, stateAuth, m.state)
	assert.Contains(t, m.View(), "session expired")
}

func TestStaleDebounceTimerFiresNoSearch(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.searchBar.Focused())

	m = typeInto(m, "du") // seq ends at 2
	m = typeInto(m, "ne") // seq ends at 4

	m, cmd := update(m, DebounceElapsedMsg{Seq: 2})
	assert.Nil(t, cmd, "a superseded timer must not issue a request")
	assert.False(t, m.searchBar.Searching())
}

func TestStaleSearchResultsIgnored(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	m = typeInto(m, "dune")
	m, _ = update(m, DebounceElapsedMsg{Seq: 4}) // gen 1 issued

	m = typeInto(m, " 2")
	m, _ = update(m, DebounceElapsedMsg{Seq: 6}) // gen 2 issued

	// The older response lands after the newer request was issued.
	m, _ = update(m, SearchResultsMsg{Movies: []domain.Movie{{Title: "Dune"}}, Query: "dune", Gen: 1})
	assert.Empty(t, m.results.Movies(), "stale results must not render")

	m, _ = update(m, SearchResultsMsg{Movies: []domain.Movie{{Title: "Dune: Part Two"}}, Query: "dune 2", Gen: 2})
	require.Len(t, m.results.Movies(), 1)
	assert.Equal(t, "Dune: Part Two", m.results.Movies()[0].Title)
	assert.True(t, m.showingSearch)
}

func TestClearingQueryReturnsToCatalog(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	m = typeInto(m, "du")
	m, _ = update(m, DebounceElapsedMsg{Seq: 2})
	require.True(t, m.showingSearch)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.False(t, m.showingSearch, "below-minimum query restores the catalog")
}

func TestTrendingAppendExtendsCatalog(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())

	m, _ = update(m, TrendingLoadedMsg{Movies: []domain.Movie{{Title: "Dune"}}, Page: 1})
	m, _ = update(m, TrendingLoadedMsg{Movies: []domain.Movie{{Title: "Arrival"}}, Page: 2, Append: true})

	assert.Equal(t, 2, m.catalog.Len())
	assert.Equal(t, 2, m.page)
}

func TestLoadMoreOnlyFromCatalogEnd(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, TrendingLoadedMsg{Movies: []domain.Movie{{Title: "Dune"}, {Title: "Arrival"}}, Page: 1})

	// Cursor on the first row: nothing to load yet.
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	assert.Nil(t, cmd)
	assert.False(t, m.catalog.Loading())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	require.NotNil(t, cmd)
	assert.True(t, m.catalog.Loading())

	// A second press while the page is in flight is a no-op.
	m, cmd = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	assert.Nil(t, cmd)
}

func TestFetchedPosterKeyPersisted(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())

	var saved string
	m.svc.PersistKey = func(key string) error {
		saved = key
		return nil
	}

	m, _ = update(m, TMDBKeyMsg{Key: "tmdb-abc"})
	assert.Equal(t, "tmdb-abc", saved)

	saved = ""
	m, _ = update(m, TMDBKeyMsg{Err: domain.ErrServerOffline})
	assert.Empty(t, saved, "a failed fetch saves nothing")
}

func TestRecommendationFlowGatedOnSubject(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, TrendingLoadedMsg{Movies: []domain.Movie{{Title: "Dune"}}, Page: 1})

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.modal.Visible())
	require.Equal(t, "Dune", m.modal.Subject())

	// Close before the response lands; the late payload is dropped.
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(m, RecommendationsMsg{Subject: "Dune", Movies: []domain.Movie{{Title: "Arrival"}}})
	assert.False(t, m.modal.Visible())
	assert.Empty(t, m.modal.Movies())
}

func TestRecommendNotFoundShownInModal(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, TrendingLoadedMsg{Movies: []domain.Movie{{Title: "Dune"}}, Page: 1})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = update(m, RecommendationsMsg{
		Subject: "Dune",
		Err:     &domain.RequestError{StatusCode: 404, Detail: "No recommendations found for 'Dune'"},
	})
	assert.True(t, m.modal.Visible())
	assert.Contains(t, m.modal.View(), "No recommendations found")
}

func TestPosterResolutionFailureIsSilent(t *testing.T) {
	m := newTestModel(t, http.NotFoundHandler())
	m, _ = update(m, TrendingLoadedMsg{Movies: []domain.Movie{{Title: "Dune"}}, Page: 1})

	m, _ = update(m, PosterResolvedMsg{Title: "Dune", Err: domain.ErrPosterUnavailable})
	assert.Empty(t, m.status)
	assert.NotContains(t, m.catalog.View(), "▣")
}

func TestTrendingCmdMapsExpiredSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	store, err := session.Open("")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Establish("tok", "frank"))

	client := api.NewClient(srv.URL, store, nil)
	movies := service.NewMovieService(client, nil)

	msg := LoadTrendingCmd(movies, 1, false)()
	assert.IsType(t, SessionExpiredMsg{}, msg)

	_, ok := store.Load()
	assert.False(t, ok, "the rejected credential is discarded")
}
