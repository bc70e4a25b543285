package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kgrange/marquee/internal/domain"
	"github.com/kgrange/marquee/internal/tui/styles"
)

// RecommendModal shows movies similar to a chosen subject. Responses are
// gated on the subject they were requested for: after closing, or after
// opening for a different movie, a late response for the old subject is
// ignored.
type RecommendModal struct {
	visible bool
	loading bool
	subject string
	movies  []domain.Movie
	posters map[string]string
	errText string
	cursor  int
	width   int
	height  int
}

// NewRecommendModal creates a closed modal
func NewRecommendModal() RecommendModal {
	return RecommendModal{posters: make(map[string]string)}
}

// Open shows the modal in its loading state for the given subject
func (m *RecommendModal) Open(subject string) {
	m.visible = true
	m.loading = true
	m.subject = subject
	m.movies = nil
	m.errText = ""
	m.cursor = 0
}

// Close hides the modal. Safe to call when already closed.
func (m *RecommendModal) Close() {
	m.visible = false
	m.loading = false
	m.subject = ""
	m.movies = nil
	m.errText = ""
	m.cursor = 0
}

// Visible reports whether the modal is shown
func (m RecommendModal) Visible() bool {
	return m.visible
}

// Loading reports whether the modal is awaiting results
func (m RecommendModal) Loading() bool {
	return m.loading
}

// Subject returns the movie the modal is currently about
func (m RecommendModal) Subject() string {
	return m.subject
}

// Movies returns the displayed recommendations
func (m RecommendModal) Movies() []domain.Movie {
	return m.movies
}

// SetResults applies results for subject. Results for any other subject,
// including a subject the modal was closed on, are dropped; it reports
// whether they were applied.
func (m *RecommendModal) SetResults(subject string, movies []domain.Movie) bool {
	if !m.visible || subject != m.subject {
		return false
	}
	m.loading = false
	m.movies = movies
	m.cursor = 0
	return true
}

// SetError applies a failure for subject, gated the same way as results
func (m *RecommendModal) SetError(subject, errText string) bool {
	if !m.visible || subject != m.subject {
		return false
	}
	m.loading = false
	m.errText = errText
	return true
}

// ApplyPoster records a resolved poster URL for one of the shown movies
func (m *RecommendModal) ApplyPoster(title, url string) {
	m.posters[title] = url
}

// MoveUp moves the cursor up
func (m *RecommendModal) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor down
func (m *RecommendModal) MoveDown() {
	if m.cursor < len(m.movies)-1 {
		m.cursor++
	}
}

// Selected returns the movie under the cursor
func (m RecommendModal) Selected() (domain.Movie, bool) {
	if m.cursor < 0 || m.cursor >= len(m.movies) {
		return domain.Movie{}, false
	}
	return m.movies[m.cursor], true
}

// SetSize updates the component dimensions
func (m *RecommendModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the modal centered in the available area
func (m RecommendModal) View() string {
	if !m.visible {
		return ""
	}

	title := styles.ModalTitleStyle.Render(fmt.Sprintf("Because you liked %s", m.subject))

	var body string
	switch {
	case m.loading:
		body = styles.DimStyle.Render("Finding recommendations...")
	case m.errText != "":
		body = styles.ErrorStyle.Render(m.errText)
	case len(m.movies) == 0:
		body = styles.DimStyle.Render("Nothing similar found.")
	default:
		var b strings.Builder
		for i, movie := range m.movies {
			line := movie.Title
			if rating := movie.RatingLabel(); rating != "" {
				line += "  " + styles.RatingStyle.Render(rating)
			}
			if _, ok := m.posters[movie.Title]; ok {
				line += "  " + styles.DimStyle.Render("▣")
			}
			if i == m.cursor {
				line = styles.AccentStyle.Render("▸ ") + styles.TitleStyle.Render(line)
			} else {
				line = "  " + styles.SubtitleStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		body = strings.TrimRight(b.String(), "\n")
	}

	help := styles.DimStyle.Render("esc close · ↑/↓ move · enter explore")
	content := lipgloss.JoinVertical(lipgloss.Left, title, body, "", help)
	box := styles.ModalStyle.Render(content)

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
