package driven

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// NoteStore persists notes. Notes use the same per-reference monotonic
// LocalNo discipline as anchors, on an independent counter.
type NoteStore interface {
	// Create inserts a note with the next LocalNo for its reference.
	Create(ctx context.Context, input domain.CreateNoteInput) (*domain.Note, error)

	// Get retrieves a note by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id int64) (*domain.Note, error)

	// GetByLocalNo retrieves a note by (reference, localNo).
	GetByLocalNo(ctx context.Context, referenceID, localNo int64) (*domain.Note, error)

	// GetForReference returns all notes for a reference ordered by LocalNo.
	GetForReference(ctx context.Context, referenceID int64) ([]domain.Note, error)

	// GetForAnchor returns notes bound to an anchor ordered by LocalNo.
	// At most one is expected; callers treat the first as canonical.
	GetForAnchor(ctx context.Context, anchorID int64) ([]domain.Note, error)

	// Update applies the set fields of input and bumps UpdatedAt.
	// Returns domain.ErrNotFound when the note does not exist.
	Update(ctx context.Context, id int64, input domain.UpdateNoteInput) (*domain.Note, error)

	// Delete removes a note. Reports whether a row was deleted.
	Delete(ctx context.Context, id int64) (bool, error)
}
