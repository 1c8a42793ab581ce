package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Create, list, update, or delete the notes attached to a reference.`,
}

var (
	noteContent     string
	noteTitle       string
	noteAnchorID    int64
	noteClearAnchor bool
)

var noteAddCmd = &cobra.Command{
	Use:   "add [reference-id]",
	Short: "Create a note on a reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list [reference-id]",
	Short: "List notes for a reference",
	Long: `Lists the notes attached to a reference ordered by their number.
With --anchor, shows only the canonical note bound to that anchor.`,
	Args: cobra.ExactArgs(1),
	RunE: runNoteList,
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update [note-id]",
	Short: "Update a note's content, title, or anchor binding",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteUpdate,
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteDelete,
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content (required)")
	noteAddCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "Note title (derived from content when empty)")
	noteAddCmd.Flags().Int64VarP(&noteAnchorID, "anchor", "a", 0, "Anchor to bind the note to")
	_ = noteAddCmd.MarkFlagRequired("content")

	noteListCmd.Flags().Int64VarP(&noteAnchorID, "anchor", "a", 0, "Only the canonical note for this anchor")

	noteUpdateCmd.Flags().StringVarP(&noteContent, "content", "c", "", "New content")
	noteUpdateCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "New title")
	noteUpdateCmd.Flags().Int64VarP(&noteAnchorID, "anchor", "a", 0, "Bind to this anchor")
	noteUpdateCmd.Flags().BoolVar(&noteClearAnchor, "clear-anchor", false, "Unbind the note from its anchor")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteUpdateCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return notConfigured("note service")
	}

	refID, err := parseID(args[0])
	if err != nil {
		return err
	}

	input := domain.CreateNoteInput{
		ReferenceID: refID,
		ContentType: domain.NotePlainText,
		Content:     noteContent,
		Title:       noteTitle,
	}
	if noteAnchorID != 0 {
		input.AnchorID = &noteAnchorID
	}

	note, err := noteService.Create(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	cmd.Printf("Created note %d (#%d)\n", note.ID, note.LocalNo)
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return notConfigured("note service")
	}

	refID, err := parseID(args[0])
	if err != nil {
		return err
	}

	var notes []domain.Note
	if cmd.Flags().Changed("anchor") {
		note, err := noteService.GetForAnchor(context.Background(), noteAnchorID)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}
		if note != nil {
			notes = append(notes, *note)
		}
	} else {
		notes, err = noteService.GetForReference(context.Background(), refID)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}
	}

	if len(notes) == 0 {
		cmd.Println("No notes found")
		return nil
	}

	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}
		bound := ""
		if n.AnchorID != nil {
			bound = fmt.Sprintf("\tanchor %d", *n.AnchorID)
		}
		cmd.Printf("%d\t#%d\t%s%s\n", n.ID, n.LocalNo, title, bound)
	}
	return nil
}

func runNoteUpdate(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return notConfigured("note service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var input domain.UpdateNoteInput
	if cmd.Flags().Changed("content") {
		input.Content = &noteContent
	}
	if cmd.Flags().Changed("title") {
		input.Title = &noteTitle
	}
	switch {
	case noteClearAnchor:
		input.SetAnchorID = true
	case cmd.Flags().Changed("anchor"):
		input.SetAnchorID = true
		input.AnchorID = &noteAnchorID
	}

	note, err := noteService.Update(context.Background(), id, input)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	cmd.Printf("Updated note %d\n", note.ID)
	return nil
}

func runNoteDelete(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return notConfigured("note service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	deleted, err := noteService.Delete(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if !deleted {
		cmd.Printf("Note %d not found\n", id)
		return nil
	}

	cmd.Printf("Deleted note %d\n", id)
	return nil
}
