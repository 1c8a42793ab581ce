package driven

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// ReferenceStore persists references and their asset rows.
// Backed by SQLite.
type ReferenceStore interface {
	// Create inserts a new reference.
	Create(ctx context.Context, input domain.CreateReferenceInput) (*domain.Reference, error)

	// CreateWithAsset inserts a reference and its asset in one transaction.
	// Either both rows exist afterwards or neither does.
	CreateWithAsset(
		ctx context.Context,
		ref domain.CreateReferenceInput,
		asset domain.CreateAssetInput,
	) (*domain.ReferenceWithAsset, error)

	// Get retrieves a reference by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id int64) (*domain.Reference, error)

	// GetWithAsset retrieves a reference joined with its primary asset.
	GetWithAsset(ctx context.Context, id int64) (*domain.ReferenceWithAsset, error)

	// List returns all references, most recently updated first.
	List(ctx context.Context) ([]domain.Reference, error)

	// ListWithAssets returns all references with their primary assets,
	// most recently updated first.
	ListWithAssets(ctx context.Context) ([]domain.ReferenceWithAsset, error)

	// Update applies the non-nil fields of input and bumps UpdatedAt.
	// Returns domain.ErrNotFound when the reference does not exist.
	Update(ctx context.Context, id int64, input domain.UpdateReferenceInput) (*domain.Reference, error)

	// Delete removes a reference, cascading to assets, anchors and notes.
	// Reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)

	// CreateAsset inserts an asset row for an existing reference.
	CreateAsset(ctx context.Context, input domain.CreateAssetInput) (*domain.Asset, error)

	// GetAssetsForReference returns asset rows ordered by creation time.
	GetAssetsForReference(ctx context.Context, referenceID int64) ([]domain.Asset, error)
}
