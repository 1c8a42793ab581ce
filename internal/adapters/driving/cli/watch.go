package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stroma-labs/stroma-cli/internal/connectors/inbox"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and import dropped documents",
	Long: `Watches a directory and imports any supported document placed in it.
The directory defaults to the inbox.dir config value, then ~/.stroma/inbox.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Directory to watch")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	dir := watchDir
	if dir == "" && configStore != nil {
		dir = configStore.GetString("inbox.dir")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, ".stroma", "inbox")
	}

	watcher, err := inbox.NewWatcher(dir, libraryService)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", watcher.Dir())
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
