package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
)

// viewState identifies which screen is active.
type viewState int

const (
	viewLibrary viewState = iota
	viewReader
)

// statusBarHeight is the space reserved below the viewport.
const statusBarHeight = 2

// Messages.
type (
	refsLoadedMsg struct{ refs []domain.ReferenceWithAsset }

	paneOpenedMsg struct {
		paneID string
		state  domain.PaneState
		notes  []domain.Note
	}

	noteSavedMsg struct{ note *domain.Note }

	errMsg struct{ err error }
)

// App is the reader TUI following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	styles *Styles
	ctx    context.Context

	view     viewState
	refs     []domain.ReferenceWithAsset
	selected int

	// Reader state.
	paneID    string
	refID     int64
	refTitle  string
	pane      domain.PaneState
	notes     []domain.Note
	viewport  viewport.Model
	noteInput textinput.Model
	noting    bool

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the reader TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Note text"
	input.CharLimit = 500

	return &App{
		ports:     ports,
		styles:    DefaultStyles(),
		ctx:       context.Background(),
		view:      viewLibrary,
		noteInput: input,
	}, nil
}

// Init loads the library.
func (a *App) Init() tea.Cmd {
	return a.loadRefs()
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.viewport.Width = msg.Width
		a.viewport.Height = max(1, msg.Height-statusBarHeight)
		a.ready = true
		return a, nil

	case refsLoadedMsg:
		a.refs = msg.refs
		if a.selected >= len(a.refs) {
			a.selected = max(0, len(a.refs)-1)
		}
		return a, nil

	case paneOpenedMsg:
		a.view = viewReader
		a.paneID = msg.paneID
		a.pane = msg.state
		a.notes = msg.notes
		a.viewport.SetContent(a.readerContent())
		a.restoreScroll()
		return a, nil

	case noteSavedMsg:
		a.noting = false
		a.noteInput.Blur()
		a.noteInput.SetValue("")
		a.notes = append(a.notes, *msg.note)
		a.viewport.SetContent(a.readerContent())
		return a, nil

	case errMsg:
		a.err = msg.err
		a.noting = false
		return a, nil

	case tea.KeyMsg:
		if a.view == viewReader {
			return a.updateReader(msg)
		}
		return a.updateLibrary(msg)
	}

	return a, nil
}

func (a *App) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "j", "down":
		if a.selected < len(a.refs)-1 {
			a.selected++
		}
	case "k", "up":
		if a.selected > 0 {
			a.selected--
		}
	case "r":
		return a, a.loadRefs()
	case "enter":
		if len(a.refs) > 0 {
			return a, a.openReference(a.refs[a.selected])
		}
	}
	return a, nil
}

func (a *App) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.noting {
		switch msg.String() {
		case "esc":
			a.noting = false
			a.noteInput.Blur()
			a.noteInput.SetValue("")
			return a, nil
		case "enter":
			content := strings.TrimSpace(a.noteInput.Value())
			if content == "" {
				return a, nil
			}
			return a, a.saveNote(content)
		}
		var cmd tea.Cmd
		a.noteInput, cmd = a.noteInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		a.closePane()
		return a, tea.Quit
	case "esc":
		a.closePane()
		a.view = viewLibrary
		return a, a.loadRefs()
	case "+", "=":
		if a.ports.Panes.SetScale(a.paneID, a.pane.Scale+0.25) {
			a.refreshPane()
		}
		return a, nil
	case "-":
		if a.ports.Panes.SetScale(a.paneID, a.pane.Scale-0.25) {
			a.refreshPane()
		}
		return a, nil
	case "n":
		a.noting = true
		a.noteInput.Focus()
		return a, textinput.Blink
	}

	// Everything else is viewport navigation; report the resulting
	// position so the session can resume here.
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	a.reportScroll()
	return a, cmd
}

// View renders the active screen.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.view == viewReader {
		return a.readerView()
	}
	return a.libraryView()
}

func (a *App) libraryView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Stroma Library"))
	b.WriteString("\n")

	if len(a.refs) == 0 {
		b.WriteString(a.styles.Muted.Render("Library is empty. Import documents with 'stroma import'."))
	}
	for i, ref := range a.refs {
		line := fmt.Sprintf("%s  %s", ref.Type, ref.Title)
		if i == a.selected {
			line = a.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Status.Render("enter open  j/k move  r refresh  q quit"))
	if a.err != nil {
		b.WriteString("\n")
		b.WriteString(a.styles.ErrorText.Render(a.err.Error()))
	}
	return b.String()
}

func (a *App) readerView() string {
	status := fmt.Sprintf("%s  %.0f%%  zoom %.2fx", a.refTitle,
		a.viewport.ScrollPercent()*100, a.pane.Scale)
	bottom := a.styles.Status.Render(status + "  |  n note  +/- zoom  esc back  q quit")
	if a.noting {
		bottom = a.noteInput.View()
	}
	if a.err != nil {
		bottom += "\n" + a.styles.ErrorText.Render(a.err.Error())
	}
	return a.viewport.View() + "\n" + bottom
}

// readerContent renders the pane's anchors and notes into scrollable text.
func (a *App) readerContent() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render(a.refTitle))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Normal.Render("Highlights"))
	b.WriteString("\n")
	if len(a.pane.Anchors) == 0 {
		b.WriteString(a.styles.Muted.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, anchor := range a.pane.Anchors {
		style := a.styles.Highlight
		if anchor.ID == a.pane.FocusedAnchorID {
			style = a.styles.Focused
		}
		pending := ""
		if anchor.DurableID == 0 {
			pending = a.styles.Muted.Render(" (saving)")
		}
		b.WriteString(fmt.Sprintf("  p%d %s%s\n", anchor.PageIndex,
			style.Render(anchor.Text), pending))
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Normal.Render("Notes"))
	b.WriteString("\n")
	if len(a.notes) == 0 {
		b.WriteString(a.styles.Muted.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, note := range a.notes {
		title := note.Title
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString(fmt.Sprintf("  #%d %s\n", note.LocalNo, title))
		b.WriteString(a.styles.Muted.Render("    " + note.Content))
		b.WriteString("\n")
	}

	return b.String()
}

// restoreScroll reapplies the pane's stored scroll position to the viewport.
func (a *App) restoreScroll() {
	span := a.viewport.TotalLineCount() - a.viewport.Height
	if span <= 0 {
		return
	}
	a.viewport.SetYOffset(int(a.pane.ScrollPosition.Ratio * float64(span)))
}

// reportScroll feeds the viewport position back into the reconciler, which
// decides whether the movement is material enough to persist.
func (a *App) reportScroll() {
	if a.paneID == "" {
		return
	}
	a.ports.Panes.SetScrollPosition(a.paneID, domain.ScrollPosition{
		Ratio: a.viewport.ScrollPercent(),
		Top:   float64(a.viewport.YOffset),
		Scale: a.pane.Scale,
	})
}

// refreshPane re-reads the pane snapshot after a mutation.
func (a *App) refreshPane() {
	if state, ok := a.ports.Panes.Pane(a.paneID); ok {
		a.pane = state
		a.viewport.SetContent(a.readerContent())
	}
}

// closePane flushes and tears down the open pane.
func (a *App) closePane() {
	if a.paneID == "" {
		return
	}
	a.ports.Panes.RemovePane(a.paneID)
	a.ports.Panes.SetActivePane("")
	a.paneID = ""
}

// Commands.

func (a *App) loadRefs() tea.Cmd {
	return func() tea.Msg {
		refs, err := a.ports.Library.ListWithAssets(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return refsLoadedMsg{refs}
	}
}

func (a *App) openReference(ref domain.ReferenceWithAsset) tea.Cmd {
	a.refID = ref.ID
	a.refTitle = ref.Title
	return func() tea.Msg {
		data, err := a.ports.Library.ReadDocument(a.ctx, ref.ID)
		if err != nil {
			return errMsg{fmt.Errorf("opening %q: %w", ref.Title, err)}
		}

		path := ""
		if ref.Asset != nil {
			path = a.ports.Library.ResolveURI(ref.Asset.URI)
		}

		paneID := fmt.Sprintf("ref-%d", ref.ID)
		state := a.ports.Panes.SetPaneData(paneID, driving.PaneData{
			ReferenceID: ref.ID,
			Path:        path,
			Name:        ref.Title,
			Data:        data,
		})
		a.ports.Panes.SetActivePane(paneID)

		notes, err := a.ports.Notes.GetForReference(a.ctx, ref.ID)
		if err != nil {
			return errMsg{err}
		}
		return paneOpenedMsg{paneID: paneID, state: state, notes: notes}
	}
}

func (a *App) saveNote(content string) tea.Cmd {
	refID := a.refID
	return func() tea.Msg {
		note, err := a.ports.Notes.Create(a.ctx, domain.CreateNoteInput{
			ReferenceID: refID,
			ContentType: domain.NotePlainText,
			Content:     content,
		})
		if err != nil {
			return errMsg{err}
		}
		return noteSavedMsg{note}
	}
}
