package components

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgrange/marquee/internal/domain"
)

func testMovies(n int) []domain.Movie {
	movies := make([]domain.Movie, n)
	for i := range movies {
		movies[i] = domain.Movie{Title: fmt.Sprintf("Movie %d", i)}
	}
	return movies
}

func TestGridAppendKeepsCursor(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(120, 40)
	g.SetMovies(testMovies(4))

	g.MoveRight()
	g.MoveRight()
	sel, ok := g.Selected()
	require.True(t, ok)
	require.Equal(t, "Movie 2", sel.Title)

	g.Append(testMovies(4))
	sel, ok = g.Selected()
	require.True(t, ok)
	assert.Equal(t, "Movie 2", sel.Title, "load-more must not move the cursor")
	assert.Equal(t, 8, g.Len())
}

func TestGridSetMoviesResetsCursor(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(120, 40)
	g.SetMovies(testMovies(4))
	g.MoveRight()

	g.SetMovies(testMovies(2))
	sel, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, "Movie 0", sel.Title)
}

func TestGridRowNavigation(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(70, 40) // 2 columns
	g.SetMovies(testMovies(5))

	g.MoveDown()
	sel, _ := g.Selected()
	assert.Equal(t, "Movie 2", sel.Title)

	g.MoveDown()
	sel, _ = g.Selected()
	assert.Equal(t, "Movie 4", sel.Title)

	g.MoveUp()
	g.MoveUp()
	sel, _ = g.Selected()
	assert.Equal(t, "Movie 0", sel.Title)
}

func TestGridDownToPartialLastRow(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(70, 40) // 2 columns
	g.SetMovies(testMovies(3))

	g.MoveRight() // Movie 1
	g.MoveDown()  // row below has only Movie 2
	sel, _ := g.Selected()
	assert.Equal(t, "Movie 2", sel.Title)
}

func TestGridStatesRender(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(120, 40)

	g.SetLoading()
	assert.Contains(t, g.View(), "Loading")

	g.SetError("server is offline")
	assert.Contains(t, g.View(), "server is offline")

	g.SetMovies(nil)
	g.SetEmptyText("No movies matched.")
	assert.Contains(t, g.View(), "No movies matched.")
}

func TestGridLoadingKeepsExistingCards(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(120, 40)
	g.SetMovies(testMovies(2))

	g.SetLoading()
	view := g.View()
	assert.Contains(t, view, "Movie 0")
	assert.Contains(t, view, "Loading more")
}

func TestGridPosterMarker(t *testing.T) {
	g := NewCardGrid()
	g.SetSize(120, 40)
	g.SetMovies([]domain.Movie{{Title: "Dune", VoteAverage: 8.1}})

	assert.NotContains(t, g.View(), "▣")
	g.ApplyPoster("Dune", "https://image.tmdb.org/t/p/w500/dune.jpg")
	assert.Contains(t, g.View(), "▣")
}

func TestGridAtEnd(t *testing.T) {
	g := NewCardGrid()
	assert.False(t, g.AtEnd(), "empty grid has no end row")

	g.SetSize(70, 40) // 2 columns
	g.SetMovies(testMovies(5))
	assert.False(t, g.AtEnd())

	g.MoveDown()
	g.MoveDown() // Movie 4, the partial last row
	assert.True(t, g.AtEnd())

	g.Append(testMovies(2))
	assert.False(t, g.AtEnd(), "appended rows push the end away from the cursor")
}

func TestGridSelectedEmpty(t *testing.T) {
	g := NewCardGrid()
	_, ok := g.Selected()
	assert.False(t, ok)
}
