package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Manage library references",
	Long:  `List, inspect, rename, or delete the references in your library.`,
}

var referenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List references, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  runReferenceList,
}

var referenceGetCmd = &cobra.Command{
	Use:   "get [reference-id]",
	Short: "Show a reference and its assets",
	Args:  cobra.ExactArgs(1),
	RunE:  runReferenceGet,
}

var referenceRenameCmd = &cobra.Command{
	Use:   "rename [reference-id] [title]",
	Short: "Rename a reference",
	Args:  cobra.ExactArgs(2),
	RunE:  runReferenceRename,
}

var referenceDeleteCmd = &cobra.Command{
	Use:   "delete [reference-id]",
	Short: "Delete a reference and all its annotations",
	Args:  cobra.ExactArgs(1),
	RunE:  runReferenceDelete,
}

var referencePathCmd = &cobra.Command{
	Use:   "path [reference-id]",
	Short: "Print the local file path behind a reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runReferencePath,
}

func init() {
	referenceCmd.AddCommand(referenceListCmd)
	referenceCmd.AddCommand(referenceGetCmd)
	referenceCmd.AddCommand(referenceRenameCmd)
	referenceCmd.AddCommand(referenceDeleteCmd)
	referenceCmd.AddCommand(referencePathCmd)
	rootCmd.AddCommand(referenceCmd)
}

// parseID parses a numeric command line identifier.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func runReferenceList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	refs, err := libraryService.ListWithAssets(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list references: %w", err)
	}

	if len(refs) == 0 {
		cmd.Println("No references in the library. Use 'stroma import' to add one.")
		return nil
	}

	for _, ref := range refs {
		size := ""
		if ref.Asset != nil && ref.Asset.ByteSize > 0 {
			size = fmt.Sprintf(" (%d bytes)", ref.Asset.ByteSize)
		}
		cmd.Printf("%d\t%s\t%s%s\n", ref.ID, ref.Type, ref.Title, size)
	}
	return nil
}

func runReferenceGet(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	ref, err := libraryService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get reference: %w", err)
	}

	cmd.Printf("ID:      %d\n", ref.ID)
	cmd.Printf("Type:    %s\n", ref.Type)
	cmd.Printf("Title:   %s\n", ref.Title)
	cmd.Printf("Created: %s\n", ref.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	cmd.Printf("Updated: %s\n", ref.UpdatedAt.Local().Format("2006-01-02 15:04:05"))

	assets, err := libraryService.GetAssets(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get assets: %w", err)
	}
	for _, a := range assets {
		cmd.Printf("Asset:   %s %s", a.Kind, a.URI)
		if a.ContentHash != "" {
			cmd.Printf(" sha256:%s", a.ContentHash[:min(12, len(a.ContentHash))])
		}
		cmd.Println()
	}
	return nil
}

func runReferenceRename(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ref, err := libraryService.Rename(context.Background(), id, args[1])
	if err != nil {
		return fmt.Errorf("failed to rename reference: %w", err)
	}

	cmd.Printf("Renamed reference %d to %q\n", ref.ID, ref.Title)
	return nil
}

func runReferenceDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	deleted, err := libraryService.Delete(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to delete reference: %w", err)
	}
	if !deleted {
		cmd.Printf("Reference %d not found\n", id)
		return nil
	}

	cmd.Printf("Deleted reference %d\n", id)
	return nil
}

func runReferencePath(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return notConfigured("library service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	path, err := libraryService.FilePath(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if path == "" {
		cmd.Printf("Reference %d has no stored payload\n", id)
		return nil
	}

	cmd.Println(path)
	return nil
}
