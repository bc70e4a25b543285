package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/tui/styles"
)

// Layout constants for the card grid
const (
	cardWidth   = 30
	cardHeight  = 6
	minColumns  = 1
	maxColumns  = 4
	overviewLen = 50
)

// CardGrid renders movies as a scrollable grid of cards. It backs both the
// trending catalog and the search results; the app swaps its contents.
type CardGrid struct {
	movies  []domain.Movie
	posters map[string]string

	cursor int
	offset int // first visible row

	width   int
	height  int
	focused bool

	loading   bool
	errText   string
	emptyText string
}

// NewCardGrid creates an empty grid
func NewCardGrid() CardGrid {
	return CardGrid{
		posters:   make(map[string]string),
		emptyText: "Nothing to show.",
	}
}

// SetMovies replaces the grid contents and resets the cursor
func (g *CardGrid) SetMovies(movies []domain.Movie) {
	g.movies = movies
	g.cursor = 0
	g.offset = 0
	g.loading = false
	g.errText = ""
}

// Append adds movies below the current contents, keeping the cursor where
// it is so a load-more lands without a jump.
func (g *CardGrid) Append(movies []domain.Movie) {
	g.movies = append(g.movies, movies...)
	g.loading = false
	g.errText = ""
}

// Movies returns the current contents
func (g CardGrid) Movies() []domain.Movie {
	return g.movies
}

// Len returns the number of movies shown
func (g CardGrid) Len() int {
	return len(g.movies)
}

// ApplyPoster records a resolved poster URL for a title. Cards without one
// keep their placeholder.
func (g *CardGrid) ApplyPoster(title, url string) {
	g.posters[title] = url
}

// SetLoading puts the grid in its loading state
func (g *CardGrid) SetLoading() {
	g.loading = true
	g.errText = ""
}

// Loading reports whether the grid is awaiting content
func (g CardGrid) Loading() bool {
	return g.loading
}

// SetError puts the grid in its error state
func (g *CardGrid) SetError(errText string) {
	g.loading = false
	g.errText = errText
}

// SetEmptyText sets the message shown when there are no movies
func (g *CardGrid) SetEmptyText(text string) {
	g.emptyText = text
}

// SetSize updates the component dimensions
func (g *CardGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.clampScroll()
}

// Focus marks the grid as the active pane
func (g *CardGrid) Focus() { g.focused = true }

// Blur removes focus
func (g *CardGrid) Blur() { g.focused = false }

// Focused reports whether the grid is the active pane
func (g CardGrid) Focused() bool { return g.focused }

// Selected returns the movie under the cursor
func (g CardGrid) Selected() (domain.Movie, bool) {
	if g.cursor < 0 || g.cursor >= len(g.movies) {
		return domain.Movie{}, false
	}
	return g.movies[g.cursor], true
}

// AtEnd reports whether the cursor sits on the last row, where a
// load-more makes sense.
func (g CardGrid) AtEnd() bool {
	if len(g.movies) == 0 {
		return false
	}
	cols := g.columns()
	lastRow := (len(g.movies) - 1) / cols
	return g.cursor/cols == lastRow
}

// MoveLeft moves the cursor one card left
func (g *CardGrid) MoveLeft() {
	if g.cursor > 0 {
		g.cursor--
		g.clampScroll()
	}
}

// MoveRight moves the cursor one card right
func (g *CardGrid) MoveRight() {
	if g.cursor < len(g.movies)-1 {
		g.cursor++
		g.clampScroll()
	}
}

// MoveUp moves the cursor one row up
func (g *CardGrid) MoveUp() {
	cols := g.columns()
	if g.cursor-cols >= 0 {
		g.cursor -= cols
		g.clampScroll()
	}
}

// MoveDown moves the cursor one row down
func (g *CardGrid) MoveDown() {
	cols := g.columns()
	if g.cursor+cols < len(g.movies) {
		g.cursor += cols
		g.clampScroll()
	} else if g.cursor/cols < (len(g.movies)-1)/cols {
		// Partial last row
		g.cursor = len(g.movies) - 1
		g.clampScroll()
	}
}

// columns returns how many cards fit per row at the current width
func (g CardGrid) columns() int {
	cols := g.width / (cardWidth + 2)
	if cols < minColumns {
		return minColumns
	}
	if cols > maxColumns {
		return maxColumns
	}
	return cols
}

// visibleRows returns how many card rows fit at the current height
func (g CardGrid) visibleRows() int {
	rows := g.height / (cardHeight + 2)
	if rows < 1 {
		return 1
	}
	return rows
}

// clampScroll keeps the cursor's row within the visible window
func (g *CardGrid) clampScroll() {
	cols := g.columns()
	row := g.cursor / cols
	visible := g.visibleRows()

	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+visible {
		g.offset = row - visible + 1
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// View renders the grid
func (g CardGrid) View() string {
	switch {
	case g.loading && len(g.movies) == 0:
		return styles.DimStyle.Render("Loading...")
	case g.errText != "":
		return styles.ErrorStyle.Render(g.errText)
	case len(g.movies) == 0:
		return styles.DimStyle.Render(g.emptyText)
	}

	cols := g.columns()
	visible := g.visibleRows()

	var rows []string
	firstIdx := g.offset * cols
	lastIdx := (g.offset + visible) * cols
	if lastIdx > len(g.movies) {
		lastIdx = len(g.movies)
	}

	for i := firstIdx; i < lastIdx; i += cols {
		end := i + cols
		if end > len(g.movies) {
			end = len(g.movies)
		}
		cards := make([]string, 0, cols)
		for j := i; j < end; j++ {
			cards = append(cards, g.renderCard(g.movies[j], j == g.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	view := strings.Join(rows, "\n")

	if lastIdx < len(g.movies) {
		view += "\n" + styles.DimStyle.Render(fmt.Sprintf("↓ %d more", len(g.movies)-lastIdx))
	}
	if g.loading {
		view += "\n" + styles.DimStyle.Render("Loading more...")
	}
	return view
}

// renderCard renders a single movie card
func (g CardGrid) renderCard(movie domain.Movie, selected bool) string {
	inner := cardWidth - 4

	title := movie.Title
	if len(title) > inner {
		title = title[:inner-1] + "…"
	}

	var lines []string
	lines = append(lines, styles.TitleStyle.Render(title))

	meta := movie.RatingLabel()
	if _, ok := g.posters[movie.Title]; ok {
		if meta != "" {
			meta += " "
		}
		meta += "▣"
	}
	if meta != "" {
		lines = append(lines, styles.RatingStyle.Render(meta))
	}

	if tags := movie.GenreTags(); len(tags) > 0 {
		if len(tags) > 3 {
			tags = tags[:3]
		}
		lines = append(lines, styles.GenreTagStyle.Render(strings.Join(tags, " · ")))
	}

	if overview := movie.ShortOverview(overviewLen); overview != "" {
		lines = append(lines, styles.DimStyle.Render(overview))
	}

	style := styles.NormalCardStyle
	if selected && g.focused {
		style = styles.SelectedCardStyle
	}
	return style.Width(cardWidth).Height(cardHeight).Render(strings.Join(lines, "\n"))
}
