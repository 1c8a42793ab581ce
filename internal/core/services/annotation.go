package services

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
)

// Ensure AnnotationService implements the interface.
var _ driving.AnnotationService = (*AnnotationService)(nil)

// AnnotationService manages anchors.
type AnnotationService struct {
	anchorStore driven.AnchorStore
	refStore    driven.ReferenceStore
}

// NewAnnotationService creates a new annotation service.
func NewAnnotationService(anchorStore driven.AnchorStore, refStore driven.ReferenceStore) *AnnotationService {
	return &AnnotationService{
		anchorStore: anchorStore,
		refStore:    refStore,
	}
}

// Create inserts a bare anchor identity row.
func (s *AnnotationService) Create(ctx context.Context, input domain.CreateAnchorInput) (*domain.Anchor, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrUnsupportedType
	}
	if _, err := s.refStore.Get(ctx, input.ReferenceID); err != nil {
		return nil, err
	}
	return s.anchorStore.Create(ctx, input)
}

// CreatePdfText atomically creates a located text annotation.
func (s *AnnotationService) CreatePdfText(ctx context.Context, input domain.CreatePdfTextAnchorInput) (*domain.PdfTextAnchor, error) {
	if input.PageIndex < 0 || input.Text == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.refStore.Get(ctx, input.ReferenceID); err != nil {
		return nil, err
	}
	return s.anchorStore.CreatePdfText(ctx, input)
}

// Get retrieves an anchor by ID.
func (s *AnnotationService) Get(ctx context.Context, id int64) (*domain.Anchor, error) {
	return s.anchorStore.Get(ctx, id)
}

// GetForReference returns all anchors for a reference by LocalNo.
func (s *AnnotationService) GetForReference(ctx context.Context, referenceID int64) ([]domain.Anchor, error) {
	return s.anchorStore.GetForReference(ctx, referenceID)
}

// GetPdfTextForReference returns joined text anchors for a reference.
func (s *AnnotationService) GetPdfTextForReference(ctx context.Context, referenceID int64) ([]domain.PdfTextAnchor, error) {
	return s.anchorStore.GetPdfTextForReference(ctx, referenceID)
}

// GetForPage returns joined anchors on one page.
func (s *AnnotationService) GetForPage(ctx context.Context, referenceID int64, pageIndex int) ([]domain.PdfTextAnchor, error) {
	if pageIndex < 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.anchorStore.GetForPage(ctx, referenceID, pageIndex)
}

// Delete removes an anchor and its sub-rows.
func (s *AnnotationService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.anchorStore.Delete(ctx, id)
}
