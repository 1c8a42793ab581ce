package driving

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// AnnotationService manages anchors.
type AnnotationService interface {
	// Create inserts a bare anchor identity row.
	Create(ctx context.Context, input domain.CreateAnchorInput) (*domain.Anchor, error)

	// CreatePdfText atomically creates a located text annotation.
	CreatePdfText(ctx context.Context, input domain.CreatePdfTextAnchorInput) (*domain.PdfTextAnchor, error)

	// Get retrieves an anchor by ID.
	Get(ctx context.Context, id int64) (*domain.Anchor, error)

	// GetForReference returns all anchors for a reference by LocalNo.
	GetForReference(ctx context.Context, referenceID int64) ([]domain.Anchor, error)

	// GetPdfTextForReference returns joined text anchors for a reference.
	GetPdfTextForReference(ctx context.Context, referenceID int64) ([]domain.PdfTextAnchor, error)

	// GetForPage returns joined anchors on one page.
	GetForPage(ctx context.Context, referenceID int64, pageIndex int) ([]domain.PdfTextAnchor, error)

	// Delete removes an anchor and its sub-rows.
	Delete(ctx context.Context, id int64) (bool, error)
}

// NoteService manages notes.
type NoteService interface {
	// Create inserts a note. An empty title is derived from plain text
	// content when possible.
	Create(ctx context.Context, input domain.CreateNoteInput) (*domain.Note, error)

	// Get retrieves a note by ID.
	Get(ctx context.Context, id int64) (*domain.Note, error)

	// GetForReference returns all notes for a reference by LocalNo.
	GetForReference(ctx context.Context, referenceID int64) ([]domain.Note, error)

	// GetForAnchor returns the canonical note for an anchor, nil when none.
	GetForAnchor(ctx context.Context, anchorID int64) (*domain.Note, error)

	// Update applies a partial update.
	Update(ctx context.Context, id int64, input domain.UpdateNoteInput) (*domain.Note, error)

	// Delete removes a note.
	Delete(ctx context.Context, id int64) (bool, error)
}
