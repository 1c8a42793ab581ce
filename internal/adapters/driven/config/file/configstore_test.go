package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("inbox.dir", "/tmp/inbox"))
	require.NoError(t, store.Set("inbox.enabled", true))
	require.NoError(t, store.Set("reader.debounce_ms", 250))

	assert.Equal(t, "/tmp/inbox", store.GetString("inbox.dir"))
	assert.True(t, store.GetBool("inbox.enabled"))
	assert.Equal(t, 250, store.GetInt("reader.debounce_ms"))
}

func TestConfigStore_MissingKeysReturnZeroValues(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("inbox.dir", "/tmp/inbox"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/inbox", reopened.GetString("inbox.dir"))
}

func TestConfigStore_FlattensNestedTOML(t *testing.T) {
	dir := t.TempDir()

	toml := "[reader]\ndebounce_ms = 100\n\n[inbox]\ndir = \"/watched\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 100, store.GetInt("reader.debounce_ms"))
	assert.Equal(t, "/watched", store.GetString("inbox.dir"))
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
