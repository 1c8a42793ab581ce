// Package cli implements the stroma command line interface using cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
	"github.com/stroma-labs/stroma-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// verbose enables debug logging via the --verbose flag.
var verbose bool

// Services injected by main before Execute runs.
var (
	libraryService    driving.LibraryService
	annotationService driving.AnnotationService
	noteService       driving.NoteService
	paneReconciler    driving.PaneReconciler
	configStore       driven.ConfigStore
)

// Services bundles everything the CLI depends on.
type Services struct {
	Library     driving.LibraryService
	Annotations driving.AnnotationService
	Notes       driving.NoteService
	Panes       driving.PaneReconciler
	Config      driven.ConfigStore
}

// SetServices wires the driving ports into the command tree.
func SetServices(s Services) {
	libraryService = s.Library
	annotationService = s.Annotations
	noteService = s.Notes
	paneReconciler = s.Panes
	configStore = s.Config
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "stroma",
	Short: "Annotate and organize your reading library",
	Long: `Stroma is a local-first reading library: import documents, highlight
passages, attach notes, and pick up reading where you left off.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if configStore != nil && configStore.GetBool("verbose") {
			verbose = true
		}
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// notConfigured reports a command running before its driving port was
// injected.
func notConfigured(name string) error {
	return fmt.Errorf("%s not configured: %w", name, domain.ErrNotInitialized)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
