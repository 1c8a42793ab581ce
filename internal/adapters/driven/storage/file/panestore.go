// Package file provides file-backed implementations of lightweight driven
// ports, currently the pane resume-record store.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
	"github.com/stroma-labs/stroma-cli/internal/logger"
)

// storageVersion tags the persisted envelope. A mismatch on read discards
// the whole cache rather than migrating field by field: the record is a
// resumability cache, not source-of-truth data.
const storageVersion = 1

// envelope wraps the pane map with its format version.
type envelope struct {
	Version int                          `json:"version"`
	Data    map[string]domain.PaneRecord `json:"data"`
}

// PaneStore persists pane resume records as a single versioned JSON file.
type PaneStore struct {
	mu       sync.Mutex
	filePath string
}

var _ driven.PaneStore = (*PaneStore)(nil)

// NewPaneStore creates a pane store at baseDir/panes.json.
// If baseDir is empty, defaults to ~/.stroma.
func NewPaneStore(baseDir string) (*PaneStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".stroma")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	return &PaneStore{filePath: filepath.Join(baseDir, "panes.json")}, nil
}

// Load returns the stored pane map. Missing, unparsable or version-mismatched
// caches yield an empty map with a logged warning, never an error.
func (s *PaneStore) Load() map[string]domain.PaneRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save replaces the stored pane map.
func (s *PaneStore) Save(panes map[string]domain.PaneRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(panes)
}

// Get returns the record for one pane key, nil when absent.
func (s *PaneStore) Get(paneID string) *domain.PaneRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.loadLocked()[paneID]
	if !ok {
		return nil
	}
	return &rec
}

// Put upserts the record for one pane key.
func (s *PaneStore) Put(paneID string, rec domain.PaneRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	panes := s.loadLocked()
	panes[paneID] = rec
	return s.saveLocked(panes)
}

// Remove deletes the record for one pane key.
func (s *PaneStore) Remove(paneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	panes := s.loadLocked()
	if _, ok := panes[paneID]; !ok {
		return nil
	}
	delete(panes, paneID)
	return s.saveLocked(panes)
}

// Path returns the backing file path.
func (s *PaneStore) Path() string {
	return s.filePath
}

func (s *PaneStore) loadLocked() map[string]domain.PaneRecord {
	raw, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return map[string]domain.PaneRecord{}
	}
	if err != nil {
		logger.Warn("reading pane cache %s: %v", s.filePath, err)
		return map[string]domain.PaneRecord{}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Warn("discarding unparsable pane cache %s: %v", s.filePath, err)
		return map[string]domain.PaneRecord{}
	}

	if env.Version != storageVersion {
		logger.Warn("pane cache version mismatch: expected %d, got %d; discarding",
			storageVersion, env.Version)
		return map[string]domain.PaneRecord{}
	}

	if env.Data == nil {
		return map[string]domain.PaneRecord{}
	}
	return env.Data
}

func (s *PaneStore) saveLocked(panes map[string]domain.PaneRecord) error {
	raw, err := json.Marshal(envelope{Version: storageVersion, Data: panes})
	if err != nil {
		return fmt.Errorf("marshalling pane cache: %w", err)
	}

	if err := os.WriteFile(s.filePath, raw, 0600); err != nil {
		return fmt.Errorf("writing pane cache: %w", err)
	}
	return nil
}
