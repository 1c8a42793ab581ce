package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var importTitle string

var importCmd = &cobra.Command{
	Use:   "import [path...]",
	Short: "Import documents into the library",
	Long: `Stores each file's content in the asset store and creates a reference
for it. Identical content is stored once no matter how often it is imported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [uri]",
	Short: "Resolve a stroma-asset URI to a local file path",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	importCmd.Flags().StringVarP(&importTitle, "title", "t", "", "Title for the imported reference (single file only)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	if importTitle != "" && len(args) > 1 {
		return errors.New("--title applies to a single file")
	}

	ctx := context.Background()
	for _, path := range args {
		ref, err := libraryService.ImportFromPath(ctx, path, importTitle)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		cmd.Printf("Imported %q as reference %d\n", ref.Title, ref.ID)
	}
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	path := libraryService.ResolveURI(args[0])
	if path == "" {
		return fmt.Errorf("no local file for %s", args[0])
	}

	cmd.Println(path)
	return nil
}
