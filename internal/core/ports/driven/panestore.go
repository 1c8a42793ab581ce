package driven

import "github.com/stroma-labs/stroma-cli/internal/core/domain"

// PaneStore persists pane resume records. The backing file is a versioned
// cache: a version mismatch or unparsable payload discards the whole map
// and fresh defaults are used.
type PaneStore interface {
	// Load returns the stored pane map. A missing or discarded cache
	// yields an empty map, never an error.
	Load() map[string]domain.PaneRecord

	// Save replaces the stored pane map.
	Save(panes map[string]domain.PaneRecord) error

	// Get returns the record for one pane key, nil when absent.
	Get(paneID string) *domain.PaneRecord

	// Put upserts the record for one pane key.
	Put(paneID string, rec domain.PaneRecord) error

	// Remove deletes the record for one pane key.
	Remove(paneID string) error
}
