package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/blob"
	"github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

func newTestLibrary(t *testing.T) (*LibraryService, *blob.Store) {
	t.Helper()

	baseDir := t.TempDir()

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	blobs, err := blob.NewStore(baseDir)
	require.NoError(t, err)

	return NewLibraryService(store.ReferenceStore(), blobs), blobs
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLibraryService_ImportFromPath(t *testing.T) {
	lib, blobs := newTestLibrary(t)
	ctx := context.Background()
	path := writeTestFile(t, "paper.pdf", []byte("%PDF-1.7 body"))

	ref, err := lib.ImportFromPath(ctx, path, "")

	require.NoError(t, err)
	assert.Equal(t, "paper", ref.Title)
	assert.Equal(t, domain.ReferencePDF, ref.Type)
	require.NotNil(t, ref.Asset)
	assert.Equal(t, blob.ComputeHash([]byte("%PDF-1.7 body")), ref.Asset.ContentHash)
	assert.Equal(t, int64(len("%PDF-1.7 body")), ref.Asset.ByteSize)
	assert.True(t, blobs.Exists(ref.Asset.ContentHash))
}

func TestLibraryService_ImportFromPath_ExplicitTitle(t *testing.T) {
	lib, _ := newTestLibrary(t)
	path := writeTestFile(t, "scan-001.pdf", []byte("content"))

	ref, err := lib.ImportFromPath(context.Background(), path, "Annual Report")

	require.NoError(t, err)
	assert.Equal(t, "Annual Report", ref.Title)
}

func TestLibraryService_ImportFromPath_TypeInference(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	cases := []struct {
		name string
		want domain.ReferenceType
	}{
		{"figure.PNG", domain.ReferenceImage},
		{"photo.jpeg", domain.ReferenceImage},
		{"page.html", domain.ReferenceWeb},
		{"paper.pdf", domain.ReferencePDF},
		{"unknown.bin", domain.ReferencePDF},
	}
	for _, tc := range cases {
		path := writeTestFile(t, tc.name, []byte(tc.name))

		ref, err := lib.ImportFromPath(ctx, path, "")

		require.NoError(t, err)
		assert.Equal(t, tc.want, ref.Type, tc.name)
	}
}

func TestLibraryService_Import_SharedContent(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	data := []byte("identical payload")

	first, err := lib.ImportFromPath(ctx, writeTestFile(t, "a.pdf", data), "")
	require.NoError(t, err)
	second, err := lib.ImportFromBytes(ctx, data, "copy.pdf")
	require.NoError(t, err)

	// Two references, one stored blob.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Asset.ContentHash, second.Asset.ContentHash)
}

func TestLibraryService_ImportFromBytes_UntitledDefault(t *testing.T) {
	lib, _ := newTestLibrary(t)

	ref, err := lib.ImportFromBytes(context.Background(), []byte("data"), "")

	require.NoError(t, err)
	assert.Equal(t, "Untitled", ref.Title)
	assert.Equal(t, domain.ReferencePDF, ref.Type)
}

func TestLibraryService_ReadDocument(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	data := []byte("stored bytes")

	ref, err := lib.ImportFromBytes(ctx, data, "doc.pdf")
	require.NoError(t, err)

	got, err := lib.ReadDocument(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLibraryService_FilePath(t *testing.T) {
	lib, blobs := newTestLibrary(t)
	ctx := context.Background()

	ref, err := lib.ImportFromBytes(ctx, []byte("payload"), "doc.pdf")
	require.NoError(t, err)

	path, err := lib.FilePath(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, blobs.Resolve(ref.Asset.URI), path)
	assert.FileExists(t, path)
}

func TestLibraryService_Rename(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()

	ref, err := lib.ImportFromBytes(ctx, []byte("data"), "old.pdf")
	require.NoError(t, err)

	renamed, err := lib.Rename(ctx, ref.ID, "new title")
	require.NoError(t, err)
	assert.Equal(t, "new title", renamed.Title)

	_, err = lib.Rename(ctx, ref.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLibraryService_Delete_KeepsBlob(t *testing.T) {
	lib, blobs := newTestLibrary(t)
	ctx := context.Background()

	ref, err := lib.ImportFromBytes(ctx, []byte("shared content"), "doc.pdf")
	require.NoError(t, err)
	hash := ref.Asset.ContentHash

	deleted, err := lib.Delete(ctx, ref.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = lib.Get(ctx, ref.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, blobs.Exists(hash), "blob outlives the reference")
}
