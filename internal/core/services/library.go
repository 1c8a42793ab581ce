package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
	"github.com/stroma-labs/stroma-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService manages references, their assets, and document import.
type LibraryService struct {
	refStore driven.ReferenceStore
	blobs    driven.BlobStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(refStore driven.ReferenceStore, blobs driven.BlobStore) *LibraryService {
	return &LibraryService{
		refStore: refStore,
		blobs:    blobs,
	}
}

// ImportFromPath stores the file at path and creates the reference and asset
// rows in one transaction. The blob write happens first; it is idempotent, so
// a failed metadata write leaves at worst an orphaned blob, never a dangling
// reference.
func (s *LibraryService) ImportFromPath(ctx context.Context, path, title string) (*domain.ReferenceWithAsset, error) {
	blob, err := s.blobs.StoreFromPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("storing document: %w", err)
	}

	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return s.createImported(ctx, blob, referenceTypeForPath(path), title)
}

// ImportFromBytes stores an in-memory payload. The reference type is pdf
// unless the title carries a recognized extension.
func (s *LibraryService) ImportFromBytes(ctx context.Context, data []byte, title string) (*domain.ReferenceWithAsset, error) {
	blob, err := s.blobs.StoreFromBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("storing document: %w", err)
	}

	refType := referenceTypeForPath(title)
	if title == "" {
		title = "Untitled"
	}

	return s.createImported(ctx, blob, refType, title)
}

func (s *LibraryService) createImported(
	ctx context.Context,
	blob driven.StoredBlob,
	refType domain.ReferenceType,
	title string,
) (*domain.ReferenceWithAsset, error) {
	result, err := s.refStore.CreateWithAsset(ctx,
		domain.CreateReferenceInput{
			Type:  refType,
			Title: title,
		},
		domain.CreateAssetInput{
			Kind:        domain.AssetFile,
			URI:         s.blobs.URIFor(blob.Hash),
			ContentHash: blob.Hash,
			ByteSize:    blob.Size,
		})
	if err != nil {
		return nil, fmt.Errorf("creating reference: %w", err)
	}

	logger.Debug("imported %q as reference %d (hash %s)", title, result.ID, blob.Hash)
	return result, nil
}

// Get retrieves a reference by ID.
func (s *LibraryService) Get(ctx context.Context, id int64) (*domain.Reference, error) {
	return s.refStore.Get(ctx, id)
}

// GetWithAsset retrieves a reference joined with its primary asset.
func (s *LibraryService) GetWithAsset(ctx context.Context, id int64) (*domain.ReferenceWithAsset, error) {
	return s.refStore.GetWithAsset(ctx, id)
}

// List returns all references, most recently updated first.
func (s *LibraryService) List(ctx context.Context) ([]domain.Reference, error) {
	return s.refStore.List(ctx)
}

// ListWithAssets returns all references with their primary assets.
func (s *LibraryService) ListWithAssets(ctx context.Context) ([]domain.ReferenceWithAsset, error) {
	return s.refStore.ListWithAssets(ctx)
}

// Rename updates a reference title.
func (s *LibraryService) Rename(ctx context.Context, id int64, title string) (*domain.Reference, error) {
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.refStore.Update(ctx, id, domain.UpdateReferenceInput{Title: &title})
}

// Delete removes a reference and everything attached to it. The stored blob
// stays: other references may share the same content.
func (s *LibraryService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.refStore.Delete(ctx, id)
}

// GetAssets returns the asset rows for a reference.
func (s *LibraryService) GetAssets(ctx context.Context, referenceID int64) ([]domain.Asset, error) {
	return s.refStore.GetAssetsForReference(ctx, referenceID)
}

// ResolveURI maps a content-addressed asset URI to a local file path.
func (s *LibraryService) ResolveURI(uri string) string {
	return s.blobs.Resolve(uri)
}

// FilePath returns the local file path behind a reference's primary asset.
func (s *LibraryService) FilePath(ctx context.Context, referenceID int64) (string, error) {
	ref, err := s.refStore.GetWithAsset(ctx, referenceID)
	if err != nil {
		return "", err
	}
	if ref.Asset == nil {
		return "", nil
	}
	return s.blobs.Resolve(ref.Asset.URI), nil
}

// ReadDocument returns the stored bytes behind a reference's primary asset.
func (s *LibraryService) ReadDocument(ctx context.Context, referenceID int64) ([]byte, error) {
	ref, err := s.refStore.GetWithAsset(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	if ref.Asset == nil || ref.Asset.ContentHash == "" {
		return nil, nil
	}
	return s.blobs.Read(ctx, ref.Asset.ContentHash)
}

// rasterExtensions are the file extensions imported as image references.
var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
}

// referenceTypeForPath infers the reference type from a file extension.
// Unknown extensions default to pdf, the dominant import kind.
func referenceTypeForPath(path string) domain.ReferenceType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case rasterExtensions[ext]:
		return domain.ReferenceImage
	case ext == ".html" || ext == ".htm":
		return domain.ReferenceWeb
	default:
		return domain.ReferencePDF
	}
}
