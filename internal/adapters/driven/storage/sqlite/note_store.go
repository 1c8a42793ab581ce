package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
)

// noteStore implements driven.NoteStore.
type noteStore struct {
	store *Store
}

var _ driven.NoteStore = (*noteStore)(nil)

const noteColumns = `id, reference_id, anchor_id, local_no, content_type, content, title, created_at, updated_at`

// Create inserts a note with the next LocalNo for its reference. Notes use
// an independent counter from anchors, with the same transactional
// read-then-insert discipline.
func (s *noteStore) Create(ctx context.Context, input domain.CreateNoteInput) (*domain.Note, error) {
	if !input.ContentType.Valid() {
		return nil, domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	localNo, err := nextLocalNo(ctx, tx, noteCounterScope, input.ReferenceID)
	if err != nil {
		return nil, err
	}

	timestamp := now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO notes (reference_id, anchor_id, local_no, content_type, content, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, input.ReferenceID, input.AnchorID, localNo,
		string(input.ContentType), input.Content, nullString(input.Title),
		timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading note id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &domain.Note{
		ID:          id,
		ReferenceID: input.ReferenceID,
		AnchorID:    input.AnchorID,
		LocalNo:     localNo,
		ContentType: input.ContentType,
		Content:     input.Content,
		Title:       input.Title,
		CreatedAt:   timestamp,
		UpdatedAt:   timestamp,
	}, nil
}

// Get retrieves a note by ID.
func (s *noteStore) Get(ctx context.Context, id int64) (*domain.Note, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

// GetByLocalNo retrieves a note by (reference, localNo).
func (s *noteStore) GetByLocalNo(ctx context.Context, referenceID, localNo int64) (*domain.Note, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE reference_id = ? AND local_no = ?`,
		referenceID, localNo)
	return scanNote(row)
}

// GetForReference returns all notes for a reference ordered by LocalNo.
func (s *noteStore) GetForReference(ctx context.Context, referenceID int64) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE reference_id = ? ORDER BY local_no ASC`,
		referenceID)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetForAnchor returns notes bound to an anchor ordered by LocalNo. The
// schema does not enforce a single note per anchor; callers treat the
// first as canonical.
func (s *noteStore) GetForAnchor(ctx context.Context, anchorID int64) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE anchor_id = ? ORDER BY local_no ASC`,
		anchorID)
	if err != nil {
		return nil, fmt.Errorf("querying anchor notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// Update applies the set fields of input and bumps UpdatedAt.
func (s *noteStore) Update(
	ctx context.Context,
	id int64,
	input domain.UpdateNoteInput,
) (*domain.Note, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	content := existing.Content
	if input.Content != nil {
		content = *input.Content
	}
	title := existing.Title
	if input.Title != nil {
		title = *input.Title
	}
	anchorID := existing.AnchorID
	if input.SetAnchorID {
		anchorID = input.AnchorID
	}

	timestamp := now()
	if _, err := s.store.db.ExecContext(ctx, `
		UPDATE notes SET content = ?, title = ?, anchor_id = ?, updated_at = ?
		WHERE id = ?
	`, content, nullString(title), anchorID, timestamp, id); err != nil {
		return nil, fmt.Errorf("updating note: %w", err)
	}

	existing.Content = content
	existing.Title = title
	existing.AnchorID = anchorID
	existing.UpdatedAt = timestamp
	return existing, nil
}

// Delete removes a note.
func (s *noteStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.store.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting note: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

// scanNote scans a single note row.
func scanNote(row *sql.Row) (*domain.Note, error) {
	var note domain.Note
	var anchorID sql.NullInt64
	var contentType string
	var title sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&note.ID, &note.ReferenceID, &anchorID, &note.LocalNo,
		&contentType, &note.Content, &title, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning note: %w", err)
	}

	if anchorID.Valid {
		note.AnchorID = &anchorID.Int64
	}
	note.ContentType = domain.NoteContentType(contentType)
	note.Title = title.String
	if createdAt.Valid {
		note.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		note.UpdatedAt = updatedAt.Time
	}
	return &note, nil
}

// scanNotes scans multiple note rows.
func scanNotes(rows *sql.Rows) ([]domain.Note, error) {
	var notes []domain.Note //nolint:prealloc // size unknown from query
	for rows.Next() {
		var note domain.Note
		var anchorID sql.NullInt64
		var contentType string
		var title sql.NullString
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&note.ID, &note.ReferenceID, &anchorID, &note.LocalNo,
			&contentType, &note.Content, &title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}

		if anchorID.Valid {
			note.AnchorID = &anchorID.Int64
		}
		note.ContentType = domain.NoteContentType(contentType)
		note.Title = title.String
		if createdAt.Valid {
			note.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			note.UpdatedAt = updatedAt.Time
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	return notes, nil
}
