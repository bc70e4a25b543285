package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "['Sci-Fi']", []string{"Sci-Fi"}},
		{"multiple", "['Sci-Fi', 'Adventure', 'Drama']", []string{"Sci-Fi", "Adventure", "Drama"}},
		{"double quotes", `["Action", "Comedy"]`, []string{"Action", "Comedy"}},
		{"empty list", "[]", nil},
		{"absent", "", nil},
		{"bare word", "Thriller", []string{"Thriller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Movie{Genres: tt.raw}
			assert.Equal(t, tt.want, m.GenreTags())
		})
	}
}

func TestRatingLabel(t *testing.T) {
	assert.Equal(t, "⭐ 8.1", Movie{VoteAverage: 8.1}.RatingLabel())
	assert.Equal(t, "⭐ 7.0", Movie{VoteAverage: 7}.RatingLabel())
	assert.Empty(t, Movie{}.RatingLabel())
}

func TestMovieDecodesBackendJSON(t *testing.T) {
	body := `{"title":"Dune","vote_average":8.1,"genres":"['Sci-Fi']","overview":"A noble family.","popularity":91.2}`

	var m Movie
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	assert.Equal(t, "Dune", m.Title)
	assert.Equal(t, 8.1, m.VoteAverage)
	assert.Equal(t, []string{"Sci-Fi"}, m.GenreTags())
}

func TestShortOverview(t *testing.T) {
	m := Movie{Overview: "A mythic and emotionally charged hero's journey."}
	assert.Equal(t, m.Overview, m.ShortOverview(200))
	assert.Equal(t, "A mythic…", m.ShortOverview(9))
}
