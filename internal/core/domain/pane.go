package domain

import "time"

// ScrollPosition is a normalized reader scroll state.
type ScrollPosition struct {
	// Ratio is the scroll offset as a fraction of total height, in [0,1].
	Ratio float64 `json:"ratio"`

	// Top is the absolute scroll offset in layout pixels, >= 0.
	Top float64 `json:"top"`

	// Scale is the layout scale the position was captured at, > 0.
	Scale float64 `json:"scale"`
}

// PaneState is the transient in-memory state of one open reader pane.
// It is reconstructible view state, never a source of truth.
type PaneState struct {
	// ReferenceID is the durable reference shown in this pane, zero when
	// the pane shows an unimported document.
	ReferenceID int64

	// Path is the originating file path.
	Path string

	// Name is the display name.
	Name string

	// Data is the loaded document bytes.
	Data []byte

	// Anchors is the anchor list materialized for this pane, including
	// optimistic entries not yet confirmed by the durable store.
	Anchors []PaneAnchor

	// FocusedAnchorID is the focused anchor, empty when none.
	FocusedAnchorID string

	// ScrollPosition is the current normalized scroll state.
	ScrollPosition ScrollPosition

	// Scale is the display zoom, clamped to [0.5, 3.0].
	Scale float64

	// ScrollRestoreToken forces consumers to reapply ScrollPosition when it
	// changes, even if the numeric position is identical.
	ScrollRestoreToken int
}

// PaneAnchor is a pane-local view of a text anchor. ID is a client-generated
// identifier until the durable store confirms the row, then DurableID is set.
type PaneAnchor struct {
	// ID is the pane-local identifier, stable across confirmation.
	ID string

	// DurableID is the store-assigned anchor id, zero while optimistic.
	DurableID int64

	// PageIndex is the zero-based page of the selection.
	PageIndex int

	// Text is the selected text.
	Text string

	// Rects are the selection rectangles.
	Rects []RectInput

	// CreatedAt and UpdatedAt carry store timestamps once confirmed.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaneRecord is the persisted resume record for one pane. It is a cache:
// discarding it loses nothing but session resume convenience.
//
// Older records stored the scroll state as flat fields; readers accept both
// shapes, and the structured ScrollPosition wins when both are present.
type PaneRecord struct {
	ReferenceID int64           `json:"referenceId,omitempty"`
	Path        string          `json:"path"`
	Name        string          `json:"name"`
	Scroll      *ScrollPosition `json:"scrollPosition,omitempty"`

	// Legacy flat fields.
	ScrollRatio *float64 `json:"scrollRatio,omitempty"`
	ScrollTop   *float64 `json:"scrollTop,omitempty"`
	ScrollScale *float64 `json:"scrollScale,omitempty"`

	Scale float64 `json:"scale,omitempty"`
}
