package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStoreFromBytes_HashAndShard(t *testing.T) {
	store := setupTestStore(t)
	data := []byte("hello stroma")

	blob, err := store.StoreFromBytes(context.Background(), data)
	require.NoError(t, err)

	sum := sha256.Sum256(data)
	wantHash := hex.EncodeToString(sum[:])
	assert.Equal(t, wantHash, blob.Hash)
	assert.Equal(t, int64(len(data)), blob.Size)

	// The blob lands in a two-character shard directory.
	path := store.Resolve(store.URIFor(blob.Hash))
	require.NotEmpty(t, path)
	assert.Equal(t, wantHash[:2], filepath.Base(filepath.Dir(path)))
}

func TestStoreFromBytes_Deduplicates(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	data := []byte("same content twice")

	first, err := store.StoreFromBytes(ctx, data)
	require.NoError(t, err)

	path := store.Resolve(store.URIFor(first.Hash))
	require.NotEmpty(t, path)
	before, err := os.Stat(path)
	require.NoError(t, err)

	// The second write is a no-op: same hash, file untouched.
	second, err := store.StoreFromBytes(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, first.Hash, second.Hash)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestStoreFromBytes_DifferentContentDifferentHash(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a, err := store.StoreFromBytes(ctx, []byte("content a"))
	require.NoError(t, err)
	b, err := store.StoreFromBytes(ctx, []byte("content b"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Hash, b.Hash)
	assert.True(t, store.Exists(a.Hash))
	assert.True(t, store.Exists(b.Hash))
}

func TestStoreFromPath(t *testing.T) {
	store := setupTestStore(t)

	src := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7 payload"), 0600))

	blob, err := store.StoreFromPath(context.Background(), src)
	require.NoError(t, err)

	data, err := store.Read(context.Background(), blob.Hash)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 payload"), data)
}

func TestStoreFromPath_MissingFile(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.StoreFromPath(context.Background(), "/nonexistent/doc.pdf")
	assert.Error(t, err)
}

func TestRead_AbsentBlob(t *testing.T) {
	store := setupTestStore(t)

	data, err := store.Read(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestResolve(t *testing.T) {
	store := setupTestStore(t)

	blob, err := store.StoreFromBytes(context.Background(), []byte("resolvable"))
	require.NoError(t, err)

	uri := store.URIFor(blob.Hash)
	assert.Equal(t, "stroma-asset://blobs/"+blob.Hash, uri)
	assert.FileExists(t, store.Resolve(uri))

	// Foreign URIs and absent blobs resolve to nothing.
	assert.Empty(t, store.Resolve("https://example.com/doc.pdf"))
	assert.Empty(t, store.Resolve(store.URIFor("deadbeef")))
}

func TestHashFromURI(t *testing.T) {
	assert.Equal(t, "abc123", HashFromURI("stroma-asset://blobs/abc123"))
	assert.Empty(t, HashFromURI("file:///tmp/doc.pdf"))
}
