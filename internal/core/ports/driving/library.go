package driving

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// LibraryService manages references, their assets, and document import.
type LibraryService interface {
	// ImportFromPath stores the file's bytes, creates a reference of the
	// appropriate type and an asset linking them. The reference and asset
	// appear atomically: a failed import leaves neither behind.
	// An empty title defaults to the file's base name.
	ImportFromPath(ctx context.Context, path, title string) (*domain.ReferenceWithAsset, error)

	// ImportFromBytes is ImportFromPath for in-memory payloads.
	ImportFromBytes(ctx context.Context, data []byte, title string) (*domain.ReferenceWithAsset, error)

	// Get retrieves a reference by ID.
	Get(ctx context.Context, id int64) (*domain.Reference, error)

	// GetWithAsset retrieves a reference joined with its primary asset.
	GetWithAsset(ctx context.Context, id int64) (*domain.ReferenceWithAsset, error)

	// List returns all references, most recently updated first.
	List(ctx context.Context) ([]domain.Reference, error)

	// ListWithAssets returns all references with their primary assets.
	ListWithAssets(ctx context.Context) ([]domain.ReferenceWithAsset, error)

	// Rename updates a reference title.
	Rename(ctx context.Context, id int64, title string) (*domain.Reference, error)

	// Delete removes a reference and everything attached to it.
	Delete(ctx context.Context, id int64) (bool, error)

	// GetAssets returns the asset rows for a reference.
	GetAssets(ctx context.Context, referenceID int64) ([]domain.Asset, error)

	// ResolveURI maps a content-addressed asset URI to a local file path.
	// Returns "" when the blob is absent or the URI is foreign.
	ResolveURI(uri string) string

	// FilePath returns the local file path behind a reference's primary
	// asset, or "" when the reference has no stored payload.
	FilePath(ctx context.Context, referenceID int64) (string, error)

	// ReadDocument returns the stored bytes behind a reference's primary
	// asset, or nil when absent.
	ReadDocument(ctx context.Context, referenceID int64) ([]byte, error)
}
