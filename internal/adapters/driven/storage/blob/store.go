// Package blob provides content-addressable binary storage on the local
// filesystem.
//
// Blobs are keyed by the hex SHA-256 of their content and laid out under
// blobs/<first two hash chars>/<hash> to bound directory fan-out. Identical
// content maps to one physical file no matter how many references point at
// it, and writes of already-present content are skipped, so storage is
// deduplicated and existing blobs are never rewritten.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
)

// uriPrefix marks content-addressed asset locators.
const uriPrefix = "stroma-asset://blobs/"

// Store implements driven.BlobStore on a local directory.
type Store struct {
	baseDir string
}

var _ driven.BlobStore = (*Store)(nil)

// NewStore creates a blob store rooted at baseDir/assets/blobs.
// If baseDir is empty, defaults to ~/.stroma.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".stroma")
	}

	s := &Store{baseDir: baseDir}
	if err := os.MkdirAll(s.blobsDir(), 0700); err != nil {
		return nil, fmt.Errorf("creating blobs directory: %w", err)
	}
	return s, nil
}

// StoreFromPath hashes and stores the file at path.
func (s *Store) StoreFromPath(ctx context.Context, path string) (driven.StoredBlob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return driven.StoredBlob{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.StoreFromBytes(ctx, data)
}

// StoreFromBytes hashes and stores data. Storing the same bytes twice
// returns the same hash and writes nothing the second time.
func (s *Store) StoreFromBytes(ctx context.Context, data []byte) (driven.StoredBlob, error) {
	if err := ctx.Err(); err != nil {
		return driven.StoredBlob{}, err
	}

	hash := ComputeHash(data)
	dest := s.pathFor(hash)

	if _, err := os.Stat(dest); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
			return driven.StoredBlob{}, fmt.Errorf("creating shard directory: %w", err)
		}
		if err := os.WriteFile(dest, data, 0600); err != nil {
			return driven.StoredBlob{}, fmt.Errorf("writing blob: %w", err)
		}
	} else if err != nil {
		return driven.StoredBlob{}, fmt.Errorf("checking blob: %w", err)
	}

	return driven.StoredBlob{Hash: hash, Size: int64(len(data))}, nil
}

// Read returns the payload for a content hash, or nil when absent.
func (s *Store) Read(ctx context.Context, hash string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.pathFor(hash))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", hash, err)
	}
	return data, nil
}

// Exists reports whether a blob with the given content hash is stored.
func (s *Store) Exists(hash string) bool {
	_, err := os.Stat(s.pathFor(hash))
	return err == nil
}

// Resolve maps a content-addressed URI to its physical path. Returns ""
// for foreign URIs and for blobs that are not on disk.
func (s *Store) Resolve(uri string) string {
	hash := HashFromURI(uri)
	if hash == "" {
		return ""
	}
	path := s.pathFor(hash)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// URIFor returns the content-addressed URI for a hash.
func (s *Store) URIFor(hash string) string {
	return uriPrefix + hash
}

// ComputeHash returns the hex SHA-256 of data.
func ComputeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFromURI extracts the content hash from a content-addressed URI.
// Returns "" when the URI does not carry the expected prefix.
func HashFromURI(uri string) string {
	if !strings.HasPrefix(uri, uriPrefix) {
		return ""
	}
	return strings.TrimPrefix(uri, uriPrefix)
}

// pathFor computes the sharded location of a content hash.
func (s *Store) pathFor(hash string) string {
	shard := hash
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(s.blobsDir(), shard, hash)
}

func (s *Store) blobsDir() string {
	return filepath.Join(s.baseDir, "assets", "blobs")
}
