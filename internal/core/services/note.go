package services

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
)

// Ensure NoteService implements the interface.
var _ driving.NoteService = (*NoteService)(nil)

// NoteService manages notes.
type NoteService struct {
	noteStore driven.NoteStore
	refStore  driven.ReferenceStore
}

// NewNoteService creates a new note service.
func NewNoteService(noteStore driven.NoteStore, refStore driven.ReferenceStore) *NoteService {
	return &NoteService{
		noteStore: noteStore,
		refStore:  refStore,
	}
}

// Create inserts a note. When no title is given and the content is plain
// text, a title is derived from the first content line.
func (s *NoteService) Create(ctx context.Context, input domain.CreateNoteInput) (*domain.Note, error) {
	if !input.ContentType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.refStore.Get(ctx, input.ReferenceID); err != nil {
		return nil, err
	}

	if input.Title == "" && input.ContentType == domain.NotePlainText {
		input.Title = domain.DeriveNoteTitle(input.Content)
	}

	return s.noteStore.Create(ctx, input)
}

// Get retrieves a note by ID.
func (s *NoteService) Get(ctx context.Context, id int64) (*domain.Note, error) {
	return s.noteStore.Get(ctx, id)
}

// GetForReference returns all notes for a reference by LocalNo.
func (s *NoteService) GetForReference(ctx context.Context, referenceID int64) ([]domain.Note, error) {
	return s.noteStore.GetForReference(ctx, referenceID)
}

// GetForAnchor returns the canonical note for an anchor, nil when none. The
// store does not enforce one note per anchor; the lowest LocalNo wins.
func (s *NoteService) GetForAnchor(ctx context.Context, anchorID int64) (*domain.Note, error) {
	notes, err := s.noteStore.GetForAnchor(ctx, anchorID)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, nil
	}
	return &notes[0], nil
}

// Update applies a partial update.
func (s *NoteService) Update(ctx context.Context, id int64, input domain.UpdateNoteInput) (*domain.Note, error) {
	return s.noteStore.Update(ctx, id, input)
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.noteStore.Delete(ctx, id)
}
