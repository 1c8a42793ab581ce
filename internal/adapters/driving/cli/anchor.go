package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Manage anchors (highlights)",
	Long:  `Create, list, or delete the anchors attached to a reference.`,
}

var (
	anchorPage  int
	anchorText  string
	anchorKind  string
	anchorRects []string
)

var anchorAddCmd = &cobra.Command{
	Use:   "add [reference-id]",
	Short: "Create a bare anchor",
	Long: `Creates an anchor identity row of the given kind. Page placement, text
and geometry are added by kind-specific commands such as add-text.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnchorAdd,
}

var anchorAddTextCmd = &cobra.Command{
	Use:   "add-text [reference-id]",
	Short: "Create a text highlight",
	Long: `Creates a pdf_text anchor: identity row, page placement, selected text
and selection rectangles persist atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnchorAddText,
}

var anchorListCmd = &cobra.Command{
	Use:   "list [reference-id]",
	Short: "List anchors for a reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnchorList,
}

var anchorDeleteCmd = &cobra.Command{
	Use:   "delete [anchor-id]",
	Short: "Delete an anchor",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnchorDelete,
}

func init() {
	anchorAddCmd.Flags().StringVarP(&anchorKind, "kind", "k", string(domain.AnchorPdfText),
		"Anchor kind (pdf_text, pdf_point, pdf_figure, web_selector)")

	anchorAddTextCmd.Flags().IntVarP(&anchorPage, "page", "p", 0, "Zero-based page index")
	anchorAddTextCmd.Flags().StringVarP(&anchorText, "text", "t", "", "Selected text (required)")
	anchorAddTextCmd.Flags().StringArrayVarP(&anchorRects, "rect", "r", nil,
		"Selection rectangle as page,x,y,width,height (repeatable)")
	_ = anchorAddTextCmd.MarkFlagRequired("text")

	anchorListCmd.Flags().IntVarP(&anchorPage, "page", "p", -1, "Only anchors on this page")

	anchorCmd.AddCommand(anchorAddCmd)
	anchorCmd.AddCommand(anchorAddTextCmd)
	anchorCmd.AddCommand(anchorListCmd)
	anchorCmd.AddCommand(anchorDeleteCmd)
	rootCmd.AddCommand(anchorCmd)
}

// parseRect parses a page,x,y,width,height rectangle flag.
func parseRect(arg string) (domain.RectInput, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 5 {
		return domain.RectInput{}, fmt.Errorf("invalid rect %q: want page,x,y,width,height", arg)
	}

	page, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.RectInput{}, fmt.Errorf("invalid rect page in %q", arg)
	}

	coords := make([]float64, 4)
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.RectInput{}, fmt.Errorf("invalid rect coordinate in %q", arg)
		}
		coords[i] = v
	}

	return domain.RectInput{
		PageIndex: page,
		X:         coords[0],
		Y:         coords[1],
		Width:     coords[2],
		Height:    coords[3],
	}, nil
}

func runAnchorAdd(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return notConfigured("annotation service")
	}

	refID, err := parseID(args[0])
	if err != nil {
		return err
	}

	anchor, err := annotationService.Create(context.Background(), domain.CreateAnchorInput{
		ReferenceID: refID,
		Kind:        domain.AnchorKind(anchorKind),
	})
	if err != nil {
		return fmt.Errorf("failed to create anchor: %w", err)
	}

	cmd.Printf("Created anchor %d (#%d, %s)\n", anchor.ID, anchor.LocalNo, anchor.Kind)
	return nil
}

func runAnchorAddText(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return notConfigured("annotation service")
	}

	refID, err := parseID(args[0])
	if err != nil {
		return err
	}

	rects := make([]domain.RectInput, 0, len(anchorRects))
	for _, raw := range anchorRects {
		rect, err := parseRect(raw)
		if err != nil {
			return err
		}
		rects = append(rects, rect)
	}

	anchor, err := annotationService.CreatePdfText(context.Background(), domain.CreatePdfTextAnchorInput{
		ReferenceID: refID,
		PageIndex:   anchorPage,
		Text:        anchorText,
		Rects:       rects,
	})
	if err != nil {
		return fmt.Errorf("failed to create anchor: %w", err)
	}

	cmd.Printf("Created anchor %d (#%d on page %d)\n", anchor.ID, anchor.LocalNo, anchor.PageIndex)
	return nil
}

func runAnchorList(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return notConfigured("annotation service")
	}

	refID, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	var anchors []domain.PdfTextAnchor
	if anchorPage >= 0 {
		anchors, err = annotationService.GetForPage(ctx, refID, anchorPage)
	} else {
		anchors, err = annotationService.GetPdfTextForReference(ctx, refID)
	}
	if err != nil {
		return fmt.Errorf("failed to list anchors: %w", err)
	}

	if len(anchors) == 0 {
		cmd.Println("No anchors found")
		return nil
	}

	for _, a := range anchors {
		text := a.Text
		if len(text) > 60 {
			text = text[:60] + "..."
		}
		cmd.Printf("%d\t#%d\tp%d\t%q\n", a.ID, a.LocalNo, a.PageIndex, text)
	}
	return nil
}

func runAnchorDelete(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return notConfigured("annotation service")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	deleted, err := annotationService.Delete(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to delete anchor: %w", err)
	}
	if !deleted {
		cmd.Printf("Anchor %d not found\n", id)
		return nil
	}

	cmd.Printf("Deleted anchor %d\n", id)
	return nil
}
