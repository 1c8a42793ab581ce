// Command stroma is a local-first reading library: import documents,
// highlight passages, attach notes, and resume reading where you left off.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/stroma-labs/stroma-cli/internal/adapters/driven/config/file"
	"github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/blob"
	statefile "github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/file"
	"github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/stroma-labs/stroma-cli/internal/adapters/driving/cli"
	"github.com/stroma-labs/stroma-cli/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	baseDir := os.Getenv("STROMA_HOME")
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".stroma")
	}

	configStore, err := configfile.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	blobs, err := blob.NewStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening asset store: %w", err)
	}

	paneStore, err := statefile.NewPaneStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening pane store: %w", err)
	}

	// Zero means the manager's 250ms default.
	debounce := time.Duration(configStore.GetInt("panes.debounce_ms")) * time.Millisecond
	panes := services.NewPaneManager(paneStore, store.AnchorStore(), debounce)
	defer panes.Close()

	cli.SetServices(cli.Services{
		Library:     services.NewLibraryService(store.ReferenceStore(), blobs),
		Annotations: services.NewAnnotationService(store.AnchorStore(), store.ReferenceStore()),
		Notes:       services.NewNoteService(store.NoteStore(), store.ReferenceStore()),
		Panes:       panes,
		Config:      configStore,
	})

	return cli.Execute()
}
