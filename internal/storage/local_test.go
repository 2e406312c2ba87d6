package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:5001/")
	require.NoError(t, err)
	return store, dir
}

func TestLocalStore_SaveKeepsExtension(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)

	name, err := store.Save(strings.NewReader("png-bytes"), "Avatar.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, "Avatar", "stored name must not reuse the client's filename")

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStore_SaveGeneratesUniqueNames(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	a, err := store.Save(strings.NewReader("one"), "a.png")
	require.NoError(t, err)
	b, err := store.Save(strings.NewReader("two"), "a.png")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLocalStore_Remove(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t)

	name, err := store.Save(strings.NewReader("bytes"), "a.png")
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))

	_, err = os.Stat(filepath.Join(dir, name))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Removing again is fine, deletion is best-effort
	assert.NoError(t, store.Remove(name))
}

func TestLocalStore_RemoveRejectsTraversal(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	for _, name := range []string{"", ".", "..", "../escape.png", "a/b.png", "..\\win.png"} {
		assert.ErrorIs(t, store.Remove(name), ErrUnsafeFilename, "filename %q", name)
	}
}

func TestLocalStore_URL(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	assert.Equal(t, "http://localhost:5001/uploads/abc.png", store.URL("abc.png"))
}
