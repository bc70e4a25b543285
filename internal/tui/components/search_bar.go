package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kgrange/marquee/internal/tui/styles"
)

// MinQueryLength is the shortest query that triggers a search.
const MinQueryLength = 2

// SearchBar is the search input with debounce bookkeeping. Two counters
// drive correctness: debounceSeq identifies the most recent keystroke, so
// an elapsed timer armed by an older keystroke is recognized as cancelled;
// gen identifies the most recent issued request, so results that arrive
// out of order never overwrite newer ones.
type SearchBar struct {
	input textinput.Model

	debounceSeq int
	gen         int

	activeQuery string
	searching   bool
	width       int
}

// NewSearchBar creates the search bar, unfocused.
func NewSearchBar() SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Prompt = "🔍 "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return SearchBar{input: ti}
}

// Focus gives the input keyboard focus
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur removes keyboard focus
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Focused reports whether the input has keyboard focus
func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// SetWidth sets the rendered width
func (s *SearchBar) SetWidth(width int) {
	s.width = width
	s.input.Width = width - 6
}

// Query returns the trimmed current input text
func (s SearchBar) Query() string {
	return strings.TrimSpace(s.input.Value())
}

// ActiveQuery returns the query of the most recent issued request.
func (s SearchBar) ActiveQuery() string {
	return s.activeQuery
}

// Searching reports whether a request is outstanding
func (s SearchBar) Searching() bool {
	return s.searching
}

// HandleKey feeds a keystroke to the input. It reports whether the text
// changed and, when it did, the debounce sequence number to arm a timer
// with. A shrink below the minimum length returns armTimer false and
// cleared true: pending work is invalidated and the catalog returns.
func (s *SearchBar) HandleKey(msg tea.KeyMsg) (cmd tea.Cmd, armTimer bool, seq int, cleared bool) {
	before := s.input.Value()
	s.input, cmd = s.input.Update(msg)

	if s.input.Value() == before {
		return cmd, false, 0, false
	}

	// Every edit supersedes any armed timer.
	s.debounceSeq++

	if len(s.Query()) < MinQueryLength {
		s.Invalidate()
		return cmd, false, 0, true
	}
	return cmd, true, s.debounceSeq, false
}

// TimerLive reports whether an elapsed timer is still the armed one.
func (s SearchBar) TimerLive(seq int) bool {
	return seq == s.debounceSeq
}

// BeginSearch marks a request as issued and returns the query together
// with its generation tag.
func (s *SearchBar) BeginSearch() (query string, gen int) {
	s.gen++
	s.searching = true
	s.activeQuery = s.Query()
	return s.activeQuery, s.gen
}

// AcceptResults reports whether a response with the given generation is
// current. Accepting clears the in-flight marker; stale responses change
// nothing.
func (s *SearchBar) AcceptResults(gen int) bool {
	if gen != s.gen {
		return false
	}
	s.searching = false
	return true
}

// Invalidate abandons any in-flight request and pending timer.
func (s *SearchBar) Invalidate() {
	s.gen++
	s.debounceSeq++
	s.searching = false
	s.activeQuery = ""
}

// Clear empties the input and abandons pending work.
func (s *SearchBar) Clear() {
	s.input.SetValue("")
	s.Invalidate()
}

// View renders the search bar
func (s SearchBar) View() string {
	return s.input.View()
}
