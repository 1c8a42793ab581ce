package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
)

// anchorStore implements driven.AnchorStore.
type anchorStore struct {
	store *Store
}

var _ driven.AnchorStore = (*anchorStore)(nil)

// Create inserts a bare anchor identity row. The local_no read and the
// insert share one transaction so concurrent creations serialize.
func (s *anchorStore) Create(
	ctx context.Context,
	input domain.CreateAnchorInput,
) (*domain.Anchor, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrUnsupportedType
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	timestamp := now()
	localNo, err := nextLocalNo(ctx, tx, anchorCounterScope, input.ReferenceID)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO anchors (reference_id, local_no, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, input.ReferenceID, localNo, string(input.Kind), timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating anchor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading anchor id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &domain.Anchor{
		ID:          id,
		ReferenceID: input.ReferenceID,
		LocalNo:     localNo,
		Kind:        input.Kind,
		CreatedAt:   timestamp,
		UpdatedAt:   timestamp,
	}, nil
}

// CreatePdfText inserts the identity, page, text and rect rows in one
// transaction. A caller observing a partially written anchor would be an
// unrecoverable inconsistency, so any failure rolls the whole group back.
func (s *anchorStore) CreatePdfText(
	ctx context.Context,
	input domain.CreatePdfTextAnchorInput,
) (*domain.PdfTextAnchor, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	timestamp := now()
	localNo, err := nextLocalNo(ctx, tx, anchorCounterScope, input.ReferenceID)
	if err != nil {
		return nil, err
	}

	anchorResult, err := tx.ExecContext(ctx, `
		INSERT INTO anchors (reference_id, local_no, kind, created_at, updated_at)
		VALUES (?, ?, 'pdf_text', ?, ?)
	`, input.ReferenceID, localNo, timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating anchor: %w", err)
	}

	anchorID, err := anchorResult.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading anchor id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pdf_anchors (anchor_id, page_index)
		VALUES (?, ?)
	`, anchorID, input.PageIndex); err != nil {
		return nil, fmt.Errorf("creating pdf anchor: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pdf_text_anchors (anchor_id, text)
		VALUES (?, ?)
	`, anchorID, input.Text); err != nil {
		return nil, fmt.Errorf("creating pdf text anchor: %w", err)
	}

	rectStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pdf_text_anchor_rects (anchor_id, page_index, x, y, width, height)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing rect statement: %w", err)
	}
	defer rectStmt.Close()

	rects := make([]domain.Rect, 0, len(input.Rects))
	for _, r := range input.Rects {
		rectResult, err := rectStmt.ExecContext(ctx,
			anchorID, r.PageIndex, r.X, r.Y, r.Width, r.Height)
		if err != nil {
			return nil, fmt.Errorf("creating rect: %w", err)
		}
		rectID, err := rectResult.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading rect id: %w", err)
		}
		rects = append(rects, domain.Rect{
			ID:        rectID,
			AnchorID:  anchorID,
			PageIndex: r.PageIndex,
			X:         r.X,
			Y:         r.Y,
			Width:     r.Width,
			Height:    r.Height,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &domain.PdfTextAnchor{
		Anchor: domain.Anchor{
			ID:          anchorID,
			ReferenceID: input.ReferenceID,
			LocalNo:     localNo,
			Kind:        domain.AnchorPdfText,
			CreatedAt:   timestamp,
			UpdatedAt:   timestamp,
		},
		PageIndex: input.PageIndex,
		Text:      input.Text,
		Rects:     rects,
	}, nil
}

// Get retrieves an anchor by ID.
func (s *anchorStore) Get(ctx context.Context, id int64) (*domain.Anchor, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, reference_id, local_no, kind, created_at, updated_at
		FROM anchors WHERE id = ?
	`, id)

	var a domain.Anchor
	var kind string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.ReferenceID, &a.LocalNo, &kind, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning anchor: %w", err)
	}
	a.Kind = domain.AnchorKind(kind)
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = updatedAt.Time
	}
	return &a, nil
}

// GetForReference returns all anchors for a reference ordered by LocalNo.
func (s *anchorStore) GetForReference(
	ctx context.Context,
	referenceID int64,
) ([]domain.Anchor, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, reference_id, local_no, kind, created_at, updated_at
		FROM anchors
		WHERE reference_id = ?
		ORDER BY local_no ASC
	`, referenceID)
	if err != nil {
		return nil, fmt.Errorf("querying anchors: %w", err)
	}
	defer rows.Close()

	var anchors []domain.Anchor //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.Anchor
		var kind string
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.ReferenceID, &a.LocalNo, &kind,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning anchor: %w", err)
		}
		a.Kind = domain.AnchorKind(kind)
		if createdAt.Valid {
			a.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			a.UpdatedAt = updatedAt.Time
		}
		anchors = append(anchors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating anchors: %w", err)
	}

	return anchors, nil
}

// GetPdfTextForReference returns fully joined pdf_text anchors for a
// reference, ordered by page then LocalNo.
func (s *anchorStore) GetPdfTextForReference(
	ctx context.Context,
	referenceID int64,
) ([]domain.PdfTextAnchor, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT
			a.id, a.reference_id, a.local_no, a.kind, a.created_at, a.updated_at,
			p.page_index, t.text
		FROM anchors a
		JOIN pdf_anchors p ON p.anchor_id = a.id
		JOIN pdf_text_anchors t ON t.anchor_id = a.id
		WHERE a.reference_id = ? AND a.kind = 'pdf_text'
		ORDER BY p.page_index ASC, a.local_no ASC
	`, referenceID)
	if err != nil {
		return nil, fmt.Errorf("querying text anchors: %w", err)
	}
	defer rows.Close()

	anchors, err := scanPdfTextAnchors(rows)
	if err != nil {
		return nil, err
	}

	return s.attachRects(ctx, anchors, -1)
}

// GetForPage returns fully joined anchors on one page, rects filtered to
// that page.
func (s *anchorStore) GetForPage(
	ctx context.Context,
	referenceID int64,
	pageIndex int,
) ([]domain.PdfTextAnchor, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT
			a.id, a.reference_id, a.local_no, a.kind, a.created_at, a.updated_at,
			p.page_index, t.text
		FROM anchors a
		JOIN pdf_anchors p ON p.anchor_id = a.id
		LEFT JOIN pdf_text_anchors t ON t.anchor_id = a.id
		WHERE a.reference_id = ? AND p.page_index = ?
		ORDER BY a.local_no ASC
	`, referenceID, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("querying page anchors: %w", err)
	}
	defer rows.Close()

	anchors, err := scanPdfTextAnchors(rows)
	if err != nil {
		return nil, err
	}

	return s.attachRects(ctx, anchors, pageIndex)
}

// Delete removes an anchor and its sub-rows.
func (s *anchorStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.store.db.ExecContext(ctx, `DELETE FROM anchors WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting anchor: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	return n > 0, nil
}

// attachRects loads rectangles for the given anchors in one query and
// groups them in insertion order. pageIndex filters the rects when >= 0.
func (s *anchorStore) attachRects(
	ctx context.Context,
	anchors []domain.PdfTextAnchor,
	pageIndex int,
) ([]domain.PdfTextAnchor, error) {
	if len(anchors) == 0 {
		return anchors, nil
	}

	placeholders := make([]string, len(anchors))
	args := make([]any, 0, len(anchors)+1)
	for i, a := range anchors {
		placeholders[i] = "?"
		args = append(args, a.ID)
	}

	query := `
		SELECT id, anchor_id, page_index, x, y, width, height
		FROM pdf_text_anchor_rects
		WHERE anchor_id IN (` + strings.Join(placeholders, ",") + `)`
	if pageIndex >= 0 {
		query += ` AND page_index = ?`
		args = append(args, pageIndex)
	}
	query += ` ORDER BY anchor_id, id`

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rects: %w", err)
	}
	defer rows.Close()

	rectsByAnchor := make(map[int64][]domain.Rect)
	for rows.Next() {
		var r domain.Rect
		if err := rows.Scan(&r.ID, &r.AnchorID, &r.PageIndex,
			&r.X, &r.Y, &r.Width, &r.Height); err != nil {
			return nil, fmt.Errorf("scanning rect: %w", err)
		}
		rectsByAnchor[r.AnchorID] = append(rectsByAnchor[r.AnchorID], r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rects: %w", err)
	}

	for i := range anchors {
		anchors[i].Rects = rectsByAnchor[anchors[i].ID]
	}
	return anchors, nil
}

// Counter scopes: anchors and notes number independently per reference.
const (
	anchorCounterScope = "anchor"
	noteCounterScope   = "note"
)

// nextLocalNo advances the per-reference sequence for one scope inside the
// caller's transaction. The high-water mark lives in local_counters, not in
// MAX(local_no) over live rows, so deleting the highest-numbered row never
// frees its number for reuse.
func nextLocalNo(ctx context.Context, tx *sql.Tx, scope string, referenceID int64) (int64, error) {
	var last int64
	err := tx.QueryRowContext(ctx, `
		SELECT last_no FROM local_counters
		WHERE reference_id = ? AND scope = ?
	`, referenceID, scope).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("reading local counter: %w", err)
	}

	next := last + 1
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO local_counters (reference_id, scope, last_no)
		VALUES (?, ?, ?)
		ON CONFLICT(reference_id, scope) DO UPDATE SET last_no = excluded.last_no
	`, referenceID, scope, next); err != nil {
		return 0, fmt.Errorf("advancing local counter: %w", err)
	}
	return next, nil
}

// scanPdfTextAnchors scans joined anchor rows, leaving rects unset.
func scanPdfTextAnchors(rows *sql.Rows) ([]domain.PdfTextAnchor, error) {
	var anchors []domain.PdfTextAnchor //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.PdfTextAnchor
		var kind string
		var text sql.NullString
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.ReferenceID, &a.LocalNo, &kind,
			&createdAt, &updatedAt, &a.PageIndex, &text); err != nil {
			return nil, fmt.Errorf("scanning text anchor: %w", err)
		}
		a.Kind = domain.AnchorKind(kind)
		a.Text = text.String
		if createdAt.Valid {
			a.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			a.UpdatedAt = updatedAt.Time
		}
		anchors = append(anchors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating text anchors: %w", err)
	}

	return anchors, nil
}
