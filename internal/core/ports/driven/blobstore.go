package driven

import "context"

// StoredBlob describes the outcome of a blob write.
type StoredBlob struct {
	// Hash is the hex SHA-256 content hash.
	Hash string

	// Size is the payload length in bytes.
	Size int64
}

// BlobStore is content-addressable binary storage. Identical content is
// stored once regardless of how many references point at it; writes of
// existing content are no-ops.
type BlobStore interface {
	// StoreFromPath hashes and stores the file at path.
	StoreFromPath(ctx context.Context, path string) (StoredBlob, error)

	// StoreFromBytes hashes and stores data.
	StoreFromBytes(ctx context.Context, data []byte) (StoredBlob, error)

	// Read returns the payload for a content hash, or nil when absent.
	Read(ctx context.Context, hash string) ([]byte, error)

	// Exists reports whether a blob with the given content hash is stored.
	Exists(hash string) bool

	// Resolve maps a content-addressed URI to its physical path.
	// Returns "" when the URI is not content-addressed or the blob is absent.
	Resolve(uri string) string

	// URIFor returns the content-addressed URI for a hash.
	URIFor(hash string) string
}
