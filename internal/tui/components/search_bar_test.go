package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeRunes(t *testing.T, s *SearchBar, text string) (armTimer bool, seq int, cleared bool) {
	t.Helper()
	for _, r := range text {
		_, armTimer, seq, cleared = s.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return armTimer, seq, cleared
}

func backspace(s *SearchBar) (armTimer bool, seq int, cleared bool) {
	_, armTimer, seq, cleared = s.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace})
	return armTimer, seq, cleared
}

func TestShortQueryArmsNoTimer(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	armTimer, _, cleared := typeRunes(t, &s, "d")
	assert.False(t, armTimer)
	assert.False(t, cleared)
}

func TestTimerArmsAtMinLength(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	armTimer, seq, _ := typeRunes(t, &s, "du")
	assert.True(t, armTimer)
	assert.True(t, s.TimerLive(seq))
}

func TestRapidTypingSupersedesTimer(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	_, firstSeq, _ := typeRunes(t, &s, "du")
	armTimer, lastSeq, _ := typeRunes(t, &s, "ne")

	require.True(t, armTimer)
	assert.False(t, s.TimerLive(firstSeq), "older keystroke's timer must be dead")
	assert.True(t, s.TimerLive(lastSeq))
}

func TestStaleResultsRejected(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	typeRunes(t, &s, "du")
	_, oldGen := s.BeginSearch()

	typeRunes(t, &s, "ne")
	_, newGen := s.BeginSearch()

	assert.False(t, s.AcceptResults(oldGen), "response for a superseded request must be dropped")
	assert.True(t, s.AcceptResults(newGen))
	assert.False(t, s.Searching())
}

func TestShrinkBelowMinimumInvalidates(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	typeRunes(t, &s, "du")
	_, gen := s.BeginSearch()
	require.True(t, s.Searching())

	armTimer, _, cleared := backspace(&s)
	assert.False(t, armTimer)
	assert.True(t, cleared)
	assert.False(t, s.Searching())
	assert.False(t, s.AcceptResults(gen), "in-flight result must not apply after clearing")
}

func TestClearResetsEverything(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	typeRunes(t, &s, "dune")
	_, gen := s.BeginSearch()

	s.Clear()
	assert.Empty(t, s.Query())
	assert.Empty(t, s.ActiveQuery())
	assert.False(t, s.AcceptResults(gen))
}

func TestWhitespaceDoesNotCountTowardMinimum(t *testing.T) {
	s := NewSearchBar()
	s.Focus()

	armTimer, _, _ := typeRunes(t, &s, "d ")
	assert.False(t, armTimer, "a one-letter query padded with spaces is still too short")
}

func TestUnchangedInputArmsNothing(t *testing.T) {
	s := NewSearchBar()
	s.Focus()
	typeRunes(t, &s, "du")

	before := s.Query()
	_, armTimer, _, cleared := s.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, before, s.Query())
	assert.False(t, armTimer)
	assert.False(t, cleared)
}
