package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/poster"
	"github.com/kgrange/marquee/internal/service"
	"github.com/kgrange/marquee/internal/tui/components"
	"github.com/kgrange/marquee/internal/tui/styles"
)

// appState is which screen the application shows
type appState int

const (
	stateAuth appState = iota
	stateBrowse
)

// statusTimeout is how long transient status messages stay visible
const statusTimeout = 4 * time.Second

// Services bundles the dependencies the model needs
type Services struct {
	Accounts  *service.AccountService
	Movies    *service.MovieService
	Suggester *service.Suggester
	Resolver  *poster.Resolver
	TMDB      *poster.TMDBClient
	KeySource KeySource

	// PersistKey saves a backend-fetched poster key so later runs skip the
	// fetch. Optional.
	PersistKey func(key string) error
}

// Model is the root bubbletea model
type Model struct {
	svc    Services
	logger *slog.Logger
	keys   KeyMap

	state    appState
	username string

	form      components.LoginForm
	searchBar components.SearchBar
	catalog   components.CardGrid
	results   components.CardGrid
	modal     components.RecommendModal

	// showingSearch switches the main pane between the trending catalog
	// and search results. The catalog keeps its contents and scroll
	// position while hidden.
	showingSearch bool
	page          int

	width  int
	height int

	status      string
	statusIsErr bool
}

// NewModel creates the root model. When a session survives from a prior
// run the dashboard shows immediately, otherwise the login screen does.
func NewModel(svc Services, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		svc:       svc,
		logger:    logger,
		keys:      DefaultKeyMap(),
		state:     stateAuth,
		form:      components.NewLoginForm(),
		searchBar: components.NewSearchBar(),
		catalog:   components.NewCardGrid(),
		results:   components.NewCardGrid(),
		modal:     components.NewRecommendModal(),
		page:      1,
	}
	m.catalog.SetEmptyText("No trending movies.")
	m.results.SetEmptyText("No movies matched.")
	m.catalog.Focus()

	if sess, ok := svc.Accounts.Current(); ok {
		m.state = stateBrowse
		m.username = sess.Username
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.state == stateBrowse {
		return m.enterDashboard()
	}
	return nil
}

// enterDashboard returns the commands that populate a fresh dashboard
func (m *Model) enterDashboard() tea.Cmd {
	m.catalog.SetLoading()
	cmds := []tea.Cmd{
		LoadTrendingCmd(m.svc.Movies, 1, false),
		LoadTitlesCmd(m.svc.Suggester),
	}
	if !m.svc.TMDB.HasKey() {
		cmds = append(cmds, FetchTMDBKeyCmd(m.svc.KeySource, m.svc.TMDB))
	}
	return tea.Batch(cmds...)
}

// forceLogout abandons the dashboard and returns to the login screen
func (m *Model) forceLogout(reason string) {
	m.state = stateAuth
	m.username = ""
	m.showingSearch = false
	m.page = 1
	m.modal.Close()
	m.searchBar.Clear()
	m.searchBar.Blur()
	m.catalog = components.NewCardGrid()
	m.catalog.SetEmptyText("No trending movies.")
	m.catalog.Focus()
	m.results = components.NewCardGrid()
	m.results.SetEmptyText("No movies matched.")
	m.form = components.NewLoginForm()
	if reason != "" {
		m.form.SetError(reason)
	}
}

// activeGrid returns the grid the main pane currently shows
func (m *Model) activeGrid() *components.CardGrid {
	if m.showingSearch {
		return &m.results
	}
	return &m.catalog
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetSize(msg.Width, msg.Height)
		m.modal.SetSize(msg.Width, msg.Height)
		m.searchBar.SetWidth(msg.Width)
		gridHeight := msg.Height - 5
		m.catalog.SetSize(msg.Width, gridHeight)
		m.results.SetSize(msg.Width, gridHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionExpiredMsg:
		m.logger.Info("session expired, returning to login")
		m.forceLogout("session expired, please sign in again")
		return m, nil

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case RegisterResultMsg:
		if msg.Err != nil {
			m.form.SetError(friendlyError(msg.Err))
			return m, nil
		}
		m.form.ToggleMode()
		m.form.SetInfo(msg.Message + " Sign in to continue.")
		return m, nil

	case TrendingLoadedMsg:
		return m.handleTrendingLoaded(msg)

	case DebounceElapsedMsg:
		if !m.searchBar.TimerLive(msg.Seq) {
			return m, nil
		}
		query, gen := m.searchBar.BeginSearch()
		m.results.SetLoading()
		m.showingSearch = true
		return m, SearchCmd(m.svc.Movies, query, gen)

	case SearchResultsMsg:
		return m.handleSearchResults(msg)

	case RecommendationsMsg:
		return m.handleRecommendations(msg)

	case PosterResolvedMsg:
		if msg.Err == nil {
			m.catalog.ApplyPoster(msg.Title, msg.URL)
			m.results.ApplyPoster(msg.Title, msg.URL)
			m.modal.ApplyPoster(msg.Title, msg.URL)
		}
		return m, nil

	case TitlesReadyMsg:
		if msg.Err != nil {
			m.logger.Warn("suggestion index unavailable", "error", msg.Err)
		}
		return m, nil

	case TMDBKeyMsg:
		if msg.Err != nil {
			m.logger.Warn("poster lookup key unavailable", "error", msg.Err)
			return m, nil
		}
		if msg.Key != "" && m.svc.PersistKey != nil {
			if err := m.svc.PersistKey(msg.Key); err != nil {
				m.logger.Warn("could not persist poster lookup key", "error", err)
			}
		}
		return m, nil

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		if m.catalog.Len() == 0 {
			m.catalog.SetError(friendlyError(msg.Err))
			return m, nil
		}
		// Keep what is on screen; a load-more failure is only a status note.
		m.catalog.Append(nil)
		m.setStatus(friendlyError(msg.Err), true)
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.status = ""
		m.statusIsErr = false
		return m, nil
	}

	return m, nil
}

// handleLoginResult applies a login outcome
func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.form.SetError(friendlyError(msg.Err))
		return m, nil
	}
	m.state = stateBrowse
	m.username = msg.Session.Username
	return m, m.enterDashboard()
}

// handleTrendingLoaded applies a trending page
func (m Model) handleTrendingLoaded(msg TrendingLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Append {
		if len(msg.Movies) == 0 {
			m.catalog.Append(nil)
			m.setStatus("end of the catalog", false)
			return m, ClearStatusCmd(statusTimeout)
		}
		m.catalog.Append(msg.Movies)
	} else {
		m.catalog.SetMovies(msg.Movies)
	}
	m.page = msg.Page
	return m, m.resolvePosters(msg.Movies)
}

// handleSearchResults applies search results, dropping stale generations
func (m Model) handleSearchResults(msg SearchResultsMsg) (tea.Model, tea.Cmd) {
	if !m.searchBar.AcceptResults(msg.Gen) {
		m.logger.Debug("dropped stale search results", "query", msg.Query)
		return m, nil
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrServerOffline) {
			m.results.SetError("Server is offline. Is the backend running?")
		} else {
			m.results.SetError(friendlyError(msg.Err))
		}
		return m, nil
	}
	m.results.SetMovies(msg.Movies)
	m.showingSearch = true
	return m, m.resolvePosters(msg.Movies)
}

// handleRecommendations applies modal results, gated on the subject
func (m Model) handleRecommendations(msg RecommendationsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		var reqErr *domain.RequestError
		text := friendlyError(msg.Err)
		if errors.As(msg.Err, &reqErr) && reqErr.StatusCode == 404 {
			text = "No recommendations found for this movie."
		}
		if !m.modal.SetError(msg.Subject, text) {
			m.logger.Debug("dropped stale recommendations", "subject", msg.Subject)
		}
		return m, nil
	}
	if !m.modal.SetResults(msg.Subject, msg.Movies) {
		m.logger.Debug("dropped stale recommendations", "subject", msg.Subject)
		return m, nil
	}
	return m, m.resolvePosters(msg.Movies)
}

// resolvePosters issues lookups for every title that is not yet cached
func (m *Model) resolvePosters(movies []domain.Movie) tea.Cmd {
	var cmds []tea.Cmd
	for _, movie := range movies {
		if url, ok := m.svc.Resolver.Cached(movie.Title); ok {
			m.catalog.ApplyPoster(movie.Title, url)
			m.results.ApplyPoster(movie.Title, url)
			m.modal.ApplyPoster(movie.Title, url)
			continue
		}
		cmds = append(cmds, ResolvePosterCmd(m.svc.Resolver, movie.Title))
	}
	return tea.Batch(cmds...)
}

// handleKey routes keystrokes by state
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.state == stateAuth {
		return m.handleAuthKey(msg)
	}
	if m.modal.Visible() {
		return m.handleModalKey(msg)
	}
	if m.searchBar.Focused() {
		return m.handleSearchKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleAuthKey drives the login form
func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.form.CycleFocus()
		return m, nil
	case tea.KeyCtrlR:
		m.form.ToggleMode()
		return m, nil
	case tea.KeyEnter:
		if m.form.Busy() {
			return m, nil
		}
		creds, ok := m.form.Submit()
		if !ok {
			return m, nil
		}
		m.form.SetBusy(true)
		if m.form.Mode() == components.ModeRegister {
			return m, RegisterCmd(m.svc.Accounts, creds.Username, creds.Email, creds.Password)
		}
		return m, LoginCmd(m.svc.Accounts, creds.Username, creds.Password)
	}
	return m, m.form.HandleKey(msg)
}

// handleModalKey drives the recommendation modal
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.modal.Close()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.modal.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.modal.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Recommend):
		// Explore a recommendation's own recommendations.
		if sel, ok := m.modal.Selected(); ok {
			m.modal.Open(sel.Title)
			return m, RecommendCmd(m.svc.Movies, sel.Title)
		}
		return m, nil
	}
	return m, nil
}

// handleSearchKey drives the focused search input
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchBar.Clear()
		m.searchBar.Blur()
		m.showingSearch = false
		m.activeGrid().Focus()
		return m, nil
	case tea.KeyEnter:
		m.searchBar.Blur()
		m.activeGrid().Focus()
		return m, nil
	}

	cmd, armTimer, seq, cleared := m.searchBar.HandleKey(msg)
	switch {
	case armTimer:
		return m, tea.Batch(cmd, DebounceCmd(seq))
	case cleared:
		m.showingSearch = false
		return m, cmd
	}
	return m, cmd
}

// handleBrowseKey drives the main grid
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	grid := m.activeGrid()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		grid.Blur()
		return m, m.searchBar.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.showingSearch {
			m.searchBar.Clear()
			m.showingSearch = false
			m.catalog.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		grid.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		grid.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Left):
		grid.MoveLeft()
		return m, nil
	case key.Matches(msg, m.keys.Right):
		grid.MoveRight()
		return m, nil

	case key.Matches(msg, m.keys.Recommend):
		if sel, ok := grid.Selected(); ok {
			m.modal.Open(sel.Title)
			return m, RecommendCmd(m.svc.Movies, sel.Title)
		}
		return m, nil

	case key.Matches(msg, m.keys.LoadMore):
		// Load more only from the bottom of the catalog, so the appended
		// page lands right below the cursor.
		if m.showingSearch || m.catalog.Loading() || !m.catalog.AtEnd() {
			return m, nil
		}
		m.catalog.SetLoading()
		return m, LoadTrendingCmd(m.svc.Movies, m.page+1, true)

	case key.Matches(msg, m.keys.Refresh):
		if m.showingSearch {
			return m, nil
		}
		m.page = 1
		m.catalog.SetLoading()
		return m, LoadTrendingCmd(m.svc.Movies, 1, false)

	case key.Matches(msg, m.keys.Logout):
		if err := m.svc.Accounts.Logout(); err != nil {
			m.logger.Error("logout failed", "error", err)
		}
		m.forceLogout("")
		return m, nil
	}
	return m, nil
}

// setStatus sets the transient status line
func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

// friendlyError renders an error for the status line or a form
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return "Server is offline. Is the backend running?"
	case errors.Is(err, domain.ErrSessionExpired):
		return "session expired, please sign in again"
	}
	var reqErr *domain.RequestError
	if errors.As(err, &reqErr) && reqErr.Detail != "" {
		return reqErr.Detail
	}
	return err.Error()
}

// View implements tea.Model
func (m Model) View() string {
	if m.state == stateAuth {
		return m.form.View()
	}
	if m.modal.Visible() {
		return m.modal.View()
	}

	header := styles.TitleStyle.Render("Marquee") +
		styles.DimStyle.Render("  ·  trending movies") +
		lipgloss.NewStyle().Foreground(styles.LightGray).Render(fmt.Sprintf("  ·  %s", m.username))

	var pane string
	if m.showingSearch {
		pane = styles.SubtitleStyle.Render(fmt.Sprintf("Results for %q", m.searchBar.ActiveQuery()))
		if m.searchBar.Searching() {
			pane = styles.DimStyle.Render("Searching...")
		}
		pane += "\n" + m.results.View()
	} else {
		pane = m.catalog.View()
	}

	sections := []string{header, m.searchBar.View()}
	if sugs := m.suggestions(); sugs != "" {
		sections = append(sections, sugs)
	}
	sections = append(sections, pane)

	if m.status != "" {
		style := styles.StatusBarStyle
		if m.statusIsErr {
			style = styles.StatusErrorStyle
		}
		sections = append(sections, style.Render(m.status))
	} else {
		sections = append(sections, styles.DimStyle.Render("/ search · enter similar · L more · r refresh · C-x log out · q quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// suggestions renders title completions while typing a search
func (m Model) suggestions() string {
	if !m.searchBar.Focused() || !m.svc.Suggester.Ready() {
		return ""
	}
	query := m.searchBar.Query()
	if len(query) < components.MinQueryLength {
		return ""
	}
	sugs := m.svc.Suggester.Suggest(query, 3)
	if len(sugs) == 0 {
		return ""
	}
	return styles.DimStyle.Render("  try: " + strings.Join(sugs, " · "))
}
