package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-sapiens/nexus/internal/log"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), log.NewNop())
	require.NoError(t, err)
	return s
}

func TestLoadMissingNamespace(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	m, err := s.Load("challenges")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSetAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	require.NoError(t, s.Set("challenges", "reto-1", true))
	require.NoError(t, s.Set("challenges", "reto-2", false))

	m, err := s.Load("challenges")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"reto-1": true, "reto-2": false}, m)

	n, err := s.Completed("challenges")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveReplacesWholeMap(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	require.NoError(t, s.Set("skills", "variables", true))
	require.NoError(t, s.Save("skills", map[string]bool{"bucles": true}))

	m, err := s.Load("skills")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"bucles": true}, m)
}

func TestCorruptFileResetsSilently(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := New(dir, log.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ranks.json"), []byte("{not json"), 0o644))

	m, err := s.Load("ranks")
	require.NoError(t, err)
	assert.Empty(t, m)

	// Writing after the reset starts from scratch.
	require.NoError(t, s.Set("ranks", "bronce", true))
	m, err = s.Load("ranks")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"bronce": true}, m)
}

func TestInvalidNamespaceRejected(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	for _, ns := range []string{"", "../escape", "CON FIG", "Mayus"} {
		_, err := s.Load(ns)
		assert.ErrorIs(t, err, ErrInvalidNamespace, "namespace %q", ns)
		assert.ErrorIs(t, s.Set(ns, "k", true), ErrInvalidNamespace)
	}
}

func TestNamespacesListsStoredFiles(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	require.NoError(t, s.Set("challenges", "r1", true))
	require.NoError(t, s.Set("skills", "s1", true))

	ns, err := s.Namespaces()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"challenges", "skills"}, ns)
}

func TestNamespaceSeparation(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	require.NoError(t, s.Set("challenges", "x", true))

	m, err := s.Load("skills")
	require.NoError(t, err)
	assert.Empty(t, m)
}
