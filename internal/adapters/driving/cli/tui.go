package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stroma-labs/stroma-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive reader",
	Long: `Launch the interactive terminal reader for Stroma.

Open a document from your library, scroll through its highlights and
notes, and pick up where you left off. Scroll position and zoom are
remembered per document.

Controls:
  ↑/k, ↓/j - Scroll / navigate
  Enter    - Open selected reference
  +/-      - Zoom
  n        - Add a note
  Esc      - Back
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Panic recovery keeps a TUI crash from eating the stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if libraryService == nil || annotationService == nil || noteService == nil || paneReconciler == nil {
		return notConfigured("services")
	}

	app, err := tui.NewApp(&tui.Ports{
		Library:     libraryService,
		Annotations: annotationService,
		Notes:       noteService,
		Panes:       paneReconciler,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
