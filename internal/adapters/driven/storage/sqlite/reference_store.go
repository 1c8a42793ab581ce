package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
)

// referenceStore implements driven.ReferenceStore.
type referenceStore struct {
	store *Store
}

var _ driven.ReferenceStore = (*referenceStore)(nil)

// selectWithAsset joins each reference with its earliest asset row, which is
// treated as the primary asset.
const selectWithAsset = `
	SELECT
		r.id, r.type, r.title, r.created_at, r.updated_at,
		a.id, a.kind, a.uri, a.content_hash, a.byte_size, a.metadata_json,
		a.created_at, a.updated_at
	FROM "references" r
	LEFT JOIN reference_assets a ON a.id = (
		SELECT id FROM reference_assets
		WHERE reference_id = r.id
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	)
`

// Create inserts a new reference.
func (s *referenceStore) Create(
	ctx context.Context,
	input domain.CreateReferenceInput,
) (*domain.Reference, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrUnsupportedType
	}

	timestamp := now()
	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO "references" (type, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, string(input.Type), input.Title, timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating reference: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading reference id: %w", err)
	}

	return &domain.Reference{
		ID:        id,
		Type:      input.Type,
		Title:     input.Title,
		CreatedAt: timestamp,
		UpdatedAt: timestamp,
	}, nil
}

// CreateWithAsset inserts a reference and its asset in one transaction.
func (s *referenceStore) CreateWithAsset(
	ctx context.Context,
	ref domain.CreateReferenceInput,
	asset domain.CreateAssetInput,
) (*domain.ReferenceWithAsset, error) {
	if !ref.Type.Valid() {
		return nil, domain.ErrUnsupportedType
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	timestamp := now()
	refResult, err := tx.ExecContext(ctx, `
		INSERT INTO "references" (type, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, string(ref.Type), ref.Title, timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating reference: %w", err)
	}

	refID, err := refResult.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading reference id: %w", err)
	}

	assetResult, err := tx.ExecContext(ctx, `
		INSERT INTO reference_assets (
			reference_id, kind, uri, content_hash, byte_size, metadata_json,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, refID, string(asset.Kind), asset.URI,
		nullString(asset.ContentHash), nullInt64(asset.ByteSize),
		nullString(asset.MetadataJSON), timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating reference asset: %w", err)
	}

	assetID, err := assetResult.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading asset id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &domain.ReferenceWithAsset{
		Reference: domain.Reference{
			ID:        refID,
			Type:      ref.Type,
			Title:     ref.Title,
			CreatedAt: timestamp,
			UpdatedAt: timestamp,
		},
		Asset: &domain.Asset{
			ID:           assetID,
			ReferenceID:  refID,
			Kind:         asset.Kind,
			URI:          asset.URI,
			ContentHash:  asset.ContentHash,
			ByteSize:     asset.ByteSize,
			MetadataJSON: asset.MetadataJSON,
			CreatedAt:    timestamp,
			UpdatedAt:    timestamp,
		},
	}, nil
}

// Get retrieves a reference by ID.
func (s *referenceStore) Get(ctx context.Context, id int64) (*domain.Reference, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, title, created_at, updated_at
		FROM "references" WHERE id = ?
	`, id)

	return scanReference(row)
}

// GetWithAsset retrieves a reference joined with its primary asset.
func (s *referenceStore) GetWithAsset(ctx context.Context, id int64) (*domain.ReferenceWithAsset, error) {
	row := s.store.db.QueryRowContext(ctx, selectWithAsset+` WHERE r.id = ?`, id)

	ref, err := scanReferenceWithAsset(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ref, nil
}

// List returns all references, most recently updated first.
func (s *referenceStore) List(ctx context.Context) ([]domain.Reference, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, title, created_at, updated_at
		FROM "references"
		ORDER BY updated_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	var refs []domain.Reference //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ref domain.Reference
		var refType string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&ref.ID, &refType, &ref.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		ref.Type = domain.ReferenceType(refType)
		if createdAt.Valid {
			ref.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			ref.UpdatedAt = updatedAt.Time
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating references: %w", err)
	}

	return refs, nil
}

// ListWithAssets returns all references with their primary assets.
func (s *referenceStore) ListWithAssets(ctx context.Context) ([]domain.ReferenceWithAsset, error) {
	rows, err := s.store.db.QueryContext(ctx, selectWithAsset+` ORDER BY r.updated_at DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying references with assets: %w", err)
	}
	defer rows.Close()

	var refs []domain.ReferenceWithAsset //nolint:prealloc // size unknown from query
	for rows.Next() {
		ref, err := scanReferenceWithAsset(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, *ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating references with assets: %w", err)
	}

	return refs, nil
}

// Update applies the non-nil fields of input and bumps UpdatedAt.
func (s *referenceStore) Update(
	ctx context.Context,
	id int64,
	input domain.UpdateReferenceInput,
) (*domain.Reference, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if input.Title != nil {
		title = *input.Title
	}

	timestamp := now()
	if _, err := s.store.db.ExecContext(ctx, `
		UPDATE "references" SET title = ?, updated_at = ? WHERE id = ?
	`, title, timestamp, id); err != nil {
		return nil, fmt.Errorf("updating reference: %w", err)
	}

	existing.Title = title
	existing.UpdatedAt = timestamp
	return existing, nil
}

// Delete removes a reference, cascading to assets, anchors and notes.
func (s *referenceStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.store.db.ExecContext(ctx, `DELETE FROM "references" WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting reference: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

// CreateAsset inserts an asset row for an existing reference.
func (s *referenceStore) CreateAsset(
	ctx context.Context,
	input domain.CreateAssetInput,
) (*domain.Asset, error) {
	timestamp := now()
	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO reference_assets (
			reference_id, kind, uri, content_hash, byte_size, metadata_json,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, input.ReferenceID, string(input.Kind), input.URI,
		nullString(input.ContentHash), nullInt64(input.ByteSize),
		nullString(input.MetadataJSON), timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading asset id: %w", err)
	}

	return &domain.Asset{
		ID:           id,
		ReferenceID:  input.ReferenceID,
		Kind:         input.Kind,
		URI:          input.URI,
		ContentHash:  input.ContentHash,
		ByteSize:     input.ByteSize,
		MetadataJSON: input.MetadataJSON,
		CreatedAt:    timestamp,
		UpdatedAt:    timestamp,
	}, nil
}

// GetAssetsForReference returns asset rows ordered by creation time.
func (s *referenceStore) GetAssetsForReference(
	ctx context.Context,
	referenceID int64,
) ([]domain.Asset, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, reference_id, kind, uri, content_hash, byte_size, metadata_json,
			created_at, updated_at
		FROM reference_assets
		WHERE reference_id = ?
		ORDER BY created_at ASC, id ASC
	`, referenceID)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.Asset
		var kind string
		var contentHash, metadataJSON sql.NullString
		var byteSize sql.NullInt64
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.ReferenceID, &kind, &a.URI,
			&contentHash, &byteSize, &metadataJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		a.Kind = domain.AssetKind(kind)
		a.ContentHash = contentHash.String
		a.ByteSize = byteSize.Int64
		a.MetadataJSON = metadataJSON.String
		if createdAt.Valid {
			a.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			a.UpdatedAt = updatedAt.Time
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	return assets, nil
}

// ==================== Helper Functions ====================

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReference scans a single reference row.
func scanReference(row *sql.Row) (*domain.Reference, error) {
	var ref domain.Reference
	var refType string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&ref.ID, &refType, &ref.Title, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning reference: %w", err)
	}

	ref.Type = domain.ReferenceType(refType)
	if createdAt.Valid {
		ref.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		ref.UpdatedAt = updatedAt.Time
	}
	return &ref, nil
}

// scanReferenceWithAsset scans a reference LEFT JOINed with its primary asset.
// Passes sql.ErrNoRows through for the caller to translate.
func scanReferenceWithAsset(row rowScanner) (*domain.ReferenceWithAsset, error) {
	var ref domain.ReferenceWithAsset
	var refType string
	var createdAt, updatedAt sql.NullTime
	var assetID, byteSize sql.NullInt64
	var assetKind, assetURI, contentHash, metadataJSON sql.NullString
	var assetCreatedAt, assetUpdatedAt sql.NullTime

	err := row.Scan(&ref.ID, &refType, &ref.Title, &createdAt, &updatedAt,
		&assetID, &assetKind, &assetURI, &contentHash, &byteSize, &metadataJSON,
		&assetCreatedAt, &assetUpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reference with asset: %w", err)
	}

	ref.Type = domain.ReferenceType(refType)
	if createdAt.Valid {
		ref.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		ref.UpdatedAt = updatedAt.Time
	}

	if assetID.Valid {
		asset := &domain.Asset{
			ID:           assetID.Int64,
			ReferenceID:  ref.ID,
			Kind:         domain.AssetKind(assetKind.String),
			URI:          assetURI.String,
			ContentHash:  contentHash.String,
			ByteSize:     byteSize.Int64,
			MetadataJSON: metadataJSON.String,
		}
		if assetCreatedAt.Valid {
			asset.CreatedAt = assetCreatedAt.Time
		}
		if assetUpdatedAt.Valid {
			asset.UpdatedAt = assetUpdatedAt.Time
		}
		ref.Asset = asset
	}

	return &ref, nil
}

// nullString maps "" to NULL for nullable text columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt64 maps 0 to NULL for nullable integer columns.
func nullInt64(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
