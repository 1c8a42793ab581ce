// Package tui provides an interactive terminal reader for stroma.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"errors"

	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library manages references and document import.
	Library driving.LibraryService

	// Annotations manages anchors.
	Annotations driving.AnnotationService

	// Notes manages notes.
	Notes driving.NoteService

	// Panes reconciles transient reader-pane state.
	Panes driving.PaneReconciler
}

// Validate checks that all required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports not configured")
	}
	if p.Library == nil {
		return errors.New("library service required")
	}
	if p.Annotations == nil {
		return errors.New("annotation service required")
	}
	if p.Notes == nil {
		return errors.New("note service required")
	}
	if p.Panes == nil {
		return errors.New("pane reconciler required")
	}
	return nil
}
