package domain

import (
	"strings"
	"time"
)

// NoteContentType identifies the serialization of note content.
type NoteContentType string

// Supported note content types.
const (
	NoteTiptapJSON NoteContentType = "tiptap_json"
	NotePlainText  NoteContentType = "plain_text"
)

// Valid reports whether t is a known note content type.
func (t NoteContentType) Valid() bool {
	return t == NoteTiptapJSON || t == NotePlainText
}

// Note is rich content bound to a Reference and optionally to one Anchor.
//
// Notes share the per-reference monotonic LocalNo discipline with anchors,
// on an independent counter. The canonical reference-level note is the one
// with a nil AnchorID; when several exist, the first created is canonical.
type Note struct {
	// ID is the store-assigned identifier.
	ID int64

	// ReferenceID links to the owning Reference.
	ReferenceID int64

	// AnchorID links to an Anchor, nil for reference-level notes.
	AnchorID *int64

	// LocalNo is the per-reference monotonic sequence number.
	LocalNo int64

	// ContentType identifies the content serialization.
	ContentType NoteContentType

	// Content is the serialized document.
	Content string

	// Title is a user-set or derived title, empty when unset.
	Title string

	// CreatedAt is when the note was created.
	CreatedAt time.Time

	// UpdatedAt is when the note was last modified.
	UpdatedAt time.Time
}

// CreateNoteInput carries the fields needed to create a Note.
type CreateNoteInput struct {
	ReferenceID int64
	AnchorID    *int64
	ContentType NoteContentType
	Content     string
	Title       string
}

// UpdateNoteInput carries the updatable Note fields. Nil Content/Title are
// left unchanged. AnchorID is applied only when SetAnchorID is true, which
// allows clearing the binding by setting AnchorID to nil.
type UpdateNoteInput struct {
	Content     *string
	Title       *string
	AnchorID    *int64
	SetAnchorID bool
}

// maxDerivedTitleLen bounds titles derived from note content.
const maxDerivedTitleLen = 80

// DeriveNoteTitle produces a display title from plain text content: the
// first non-empty line, truncated. Returns "" when nothing usable exists.
func DeriveNoteTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxDerivedTitleLen {
			return string(runes[:maxDerivedTitleLen])
		}
		return line
	}
	return ""
}
