package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstablishAndLoad(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	_, ok := s.Load()
	assert.False(t, ok, "fresh store should have no session")

	require.NoError(t, s.Establish("abc", "nick"))

	sess, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "nick", sess.Username)
	assert.Equal(t, "abc", s.Token())
}

func TestClearIsIdempotent(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	require.NoError(t, s.Establish("abc", "nick"))
	require.NoError(t, s.Clear())

	_, ok := s.Load()
	assert.False(t, ok)

	// Clearing again must not fail
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Establish("abc", "nick"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	sess, ok := reopened.Load()
	require.True(t, ok)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "nick", sess.Username)
}

func TestClearPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Establish("abc", "nick"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	_, ok := reopened.Load()
	assert.False(t, ok)
}
