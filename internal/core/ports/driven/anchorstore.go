package driven

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// AnchorStore persists anchors and their kind-specific sub-rows.
//
// LocalNo assignment is computed inside the same transaction as the insert,
// so two concurrent creations can never race to the same number.
type AnchorStore interface {
	// Create inserts a bare anchor identity row with the next LocalNo for
	// its reference.
	Create(ctx context.Context, input domain.CreateAnchorInput) (*domain.Anchor, error)

	// CreatePdfText inserts the identity row, page row, text row and rect
	// rows in one transaction. On any failure no rows remain visible.
	CreatePdfText(ctx context.Context, input domain.CreatePdfTextAnchorInput) (*domain.PdfTextAnchor, error)

	// Get retrieves an anchor by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id int64) (*domain.Anchor, error)

	// GetForReference returns all anchors for a reference ordered by
	// LocalNo ascending.
	GetForReference(ctx context.Context, referenceID int64) ([]domain.Anchor, error)

	// GetPdfTextForReference returns fully joined pdf_text anchors for a
	// reference, ordered by page then LocalNo, rects in insertion order.
	GetPdfTextForReference(ctx context.Context, referenceID int64) ([]domain.PdfTextAnchor, error)

	// GetForPage returns fully joined anchors on one page, ordered by
	// LocalNo, with rects filtered to that page.
	GetForPage(ctx context.Context, referenceID int64, pageIndex int) ([]domain.PdfTextAnchor, error)

	// Delete removes an anchor, cascading to its sub-rows.
	// Reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
