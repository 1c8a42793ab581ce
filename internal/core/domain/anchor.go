package domain

import "time"

// AnchorKind identifies what an anchor is attached to.
type AnchorKind string

// Supported anchor kinds.
const (
	AnchorPdfText     AnchorKind = "pdf_text"
	AnchorPdfPoint    AnchorKind = "pdf_point"
	AnchorPdfFigure   AnchorKind = "pdf_figure"
	AnchorWebSelector AnchorKind = "web_selector"
)

// Valid reports whether k is a known anchor kind.
func (k AnchorKind) Valid() bool {
	switch k {
	case AnchorPdfText, AnchorPdfPoint, AnchorPdfFigure, AnchorWebSelector:
		return true
	}
	return false
}

// Anchor is the identity row shared by all anchor kinds.
//
// LocalNo is unique within a Reference and strictly increases with each new
// anchor for that Reference. Numbers are never reassigned or reused after
// deletion, so gaps are expected.
type Anchor struct {
	// ID is the store-assigned identifier.
	ID int64

	// ReferenceID links to the owning Reference.
	ReferenceID int64

	// LocalNo is the per-reference monotonic sequence number.
	LocalNo int64

	// Kind identifies the anchor variant.
	Kind AnchorKind

	// CreatedAt is when the anchor was created.
	CreatedAt time.Time

	// UpdatedAt is when the anchor was last modified.
	UpdatedAt time.Time
}

// Rect is a normalized rectangle on a rendered page. All coordinates are
// fractional in [0,1] relative to the page.
type Rect struct {
	// ID is the store-assigned identifier, zero before persistence.
	ID int64

	// AnchorID links to the owning anchor, zero before persistence.
	AnchorID int64

	// PageIndex is the zero-based page the rectangle lies on. A multi-line
	// selection may span adjacent pages, so this can differ per rect.
	PageIndex int

	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectInput is a Rect before persistence assigns identifiers.
type RectInput struct {
	PageIndex int
	X         float64
	Y         float64
	Width     float64
	Height    float64
}

// PdfTextAnchor is the fully joined form of a pdf_text anchor: identity,
// page placement, selected text, and geometry rectangles.
type PdfTextAnchor struct {
	Anchor

	// PageIndex is the zero-based page of the owning anchor.
	PageIndex int

	// Text is the selected text.
	Text string

	// Rects are the selection rectangles in insertion order.
	Rects []Rect
}

// CreateAnchorInput carries the fields needed to create a bare anchor
// identity row.
type CreateAnchorInput struct {
	ReferenceID int64
	Kind        AnchorKind
}

// CreatePdfTextAnchorInput carries everything needed for the composite
// pdf_text anchor creation. The whole input persists atomically.
type CreatePdfTextAnchorInput struct {
	ReferenceID int64
	PageIndex   int
	Text        string
	Rects       []RectInput
}
