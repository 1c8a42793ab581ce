package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

func setupTestPaneStore(t *testing.T) *PaneStore {
	t.Helper()

	store, err := NewPaneStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestPaneStore_EmptyLoad(t *testing.T) {
	store := setupTestPaneStore(t)

	panes := store.Load()
	assert.Empty(t, panes)
	assert.Nil(t, store.Get("pane-1"))
}

func TestPaneStore_PutGetRemove(t *testing.T) {
	store := setupTestPaneStore(t)

	rec := domain.PaneRecord{
		ReferenceID: 7,
		Path:        "/tmp/doc.pdf",
		Name:        "doc",
		Scroll:      &domain.ScrollPosition{Ratio: 0.5, Top: 120, Scale: 1.25},
		Scale:       1.25,
	}
	require.NoError(t, store.Put("pane-1", rec))

	got := store.Get("pane-1")
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ReferenceID)
	require.NotNil(t, got.Scroll)
	assert.Equal(t, 0.5, got.Scroll.Ratio)

	require.NoError(t, store.Remove("pane-1"))
	assert.Nil(t, store.Get("pane-1"))

	// Removing an absent key is not an error.
	require.NoError(t, store.Remove("pane-1"))
}

func TestPaneStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPaneStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put("pane-1", domain.PaneRecord{Path: "/tmp/a.pdf", Name: "a"}))

	reopened, err := NewPaneStore(dir)
	require.NoError(t, err)
	got := reopened.Get("pane-1")
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Name)
}

func TestPaneStore_VersionMismatchDiscardsCache(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPaneStore(dir)
	require.NoError(t, err)

	raw, err := json.Marshal(map[string]any{
		"version": storageVersion + 1,
		"data": map[string]domain.PaneRecord{
			"pane-1": {Path: "/tmp/a.pdf", Name: "a"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panes.json"), raw, 0600))

	// The whole cache is discarded, not migrated field by field.
	assert.Empty(t, store.Load())
	assert.Nil(t, store.Get("pane-1"))
}

func TestPaneStore_UnparsableCacheDiscarded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPaneStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "panes.json"), []byte("{not json"), 0600))

	assert.Empty(t, store.Load())

	// A write after the discard recovers the file.
	require.NoError(t, store.Put("pane-1", domain.PaneRecord{Name: "fresh"}))
	got := store.Get("pane-1")
	require.NotNil(t, got)
	assert.Equal(t, "fresh", got.Name)
}

func TestPaneStore_LegacyFlatFieldsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPaneStore(dir)
	require.NoError(t, err)

	// A record written by an older build: flat scroll fields, no
	// structured scrollPosition.
	raw := []byte(`{"version":1,"data":{"pane-1":{"path":"/tmp/a.pdf","name":"a","scrollRatio":0.4,"scrollTop":120,"scrollScale":1.5}}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panes.json"), raw, 0600))

	got := store.Get("pane-1")
	require.NotNil(t, got)
	assert.Nil(t, got.Scroll)
	require.NotNil(t, got.ScrollRatio)
	assert.Equal(t, 0.4, *got.ScrollRatio)
	require.NotNil(t, got.ScrollTop)
	assert.Equal(t, 120.0, *got.ScrollTop)
}
