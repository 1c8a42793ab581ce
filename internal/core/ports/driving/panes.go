package driving

import (
	"context"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// PaneData is the payload supplied when binding a document to a pane.
type PaneData struct {
	ReferenceID int64
	Path        string
	Name        string
	Data        []byte
}

// PaneReconciler keeps transient reader-pane state consistent with debounced
// asynchronous persistence. Mutations applied to an unknown paneID no-op:
// panes may be torn down while an async operation targeting them is in
// flight.
type PaneReconciler interface {
	// SetPaneData builds a fresh pane entry, seeding scroll and scale from
	// the stored resume record when one exists.
	SetPaneData(paneID string, data PaneData) domain.PaneState

	// RemovePane flushes the pane's pending persistence once, cancels its
	// debounce timer and deletes the entry; the resume record survives so a
	// reopened pane picks up where it left off. If the pane was active, the
	// active-pane pointer clears.
	RemovePane(paneID string)

	// SetActivePane moves the active-pane pointer ("" for none) and bumps
	// the focused pane's restore token.
	SetActivePane(paneID string)

	// ActivePane returns the active pane id, "" when none.
	ActivePane() string

	// Pane returns a snapshot of one pane's state.
	Pane(paneID string) (domain.PaneState, bool)

	// AddTextAnchor appends an anchor to the pane's list optimistically and
	// persists it in the background; the optimistic entry is replaced in
	// place once the durable store confirms. Reports whether the pane
	// existed.
	AddTextAnchor(ctx context.Context, paneID string, pageIndex int, text string, rects []domain.RectInput) bool

	// FocusAnchor sets the pane's focused anchor.
	FocusAnchor(paneID, anchorID string)

	// ClearFocus clears the pane's focused anchor.
	ClearFocus(paneID string)

	// SetScrollPosition normalizes and applies a scroll change, scheduling
	// a debounced write of the resume record. Reports whether the change
	// was material (outside tolerance); invalid input reports false.
	SetScrollPosition(paneID string, pos domain.ScrollPosition) bool

	// SetScale clamps and applies a zoom change. Reports whether the
	// change was material.
	SetScale(paneID string, scale float64) bool

	// Flush forces immediate persistence of the pane's pending debounced
	// scroll value or, when none is pending, its current value.
	Flush(paneID string)

	// Close flushes every pane and cancels all timers. Used at shutdown;
	// persistence failures are logged, never block.
	Close()
}
