package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/file"
	"github.com/stroma-labs/stroma-cli/internal/adapters/driven/storage/sqlite"
	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
)

// testDebounce keeps debounce waits short in tests.
const testDebounce = 20 * time.Millisecond

func newTestManager(t *testing.T) (*PaneManager, *file.PaneStore) {
	t.Helper()

	paneStore, err := file.NewPaneStore(t.TempDir())
	require.NoError(t, err)

	m := NewPaneManager(paneStore, nil, testDebounce)
	t.Cleanup(m.Close)
	return m, paneStore
}

func TestPaneManager_SetPaneData_Defaults(t *testing.T) {
	m, _ := newTestManager(t)

	state := m.SetPaneData("pane-1", driving.PaneData{Path: "/tmp/doc.pdf", Name: "doc"})

	assert.Equal(t, domain.ScrollPosition{Ratio: 0, Top: 0, Scale: 1}, state.ScrollPosition)
	assert.Equal(t, 1.0, state.Scale)
	assert.Empty(t, state.Anchors)
}

func TestPaneManager_SetPaneData_ResumesFromRecord(t *testing.T) {
	m, paneStore := newTestManager(t)

	require.NoError(t, paneStore.Put("pane-1", domain.PaneRecord{
		Path:   "/tmp/doc.pdf",
		Name:   "doc",
		Scroll: &domain.ScrollPosition{Ratio: 0.75, Top: 800, Scale: 1.5},
		Scale:  1.5,
	}))

	state := m.SetPaneData("pane-1", driving.PaneData{Path: "/tmp/doc.pdf", Name: "doc"})

	assert.Equal(t, 0.75, state.ScrollPosition.Ratio)
	assert.Equal(t, 800.0, state.ScrollPosition.Top)
	assert.Equal(t, 1.5, state.Scale)
}

func TestPaneManager_SetScrollPosition_ToleranceGate(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.5, Top: 100, Scale: 1}))

	// Jitter inside tolerance is ignored.
	assert.False(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.500001, Top: 100.1, Scale: 1}))

	// A material change applies.
	assert.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.51, Top: 100, Scale: 1}))

	state, ok := m.Pane("pane-1")
	require.True(t, ok)
	assert.Equal(t, 0.51, state.ScrollPosition.Ratio)
}

func TestPaneManager_SetScrollPosition_RejectsInvalid(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	assert.False(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.5, Top: 10, Scale: 0}))

	state, ok := m.Pane("pane-1")
	require.True(t, ok)
	assert.Equal(t, domain.ScrollPosition{Ratio: 0, Top: 0, Scale: 1}, state.ScrollPosition)
}

func TestPaneManager_UnknownPaneNoOps(t *testing.T) {
	m, _ := newTestManager(t)

	assert.False(t, m.SetScrollPosition("ghost", domain.ScrollPosition{Ratio: 0.5, Top: 10, Scale: 1}))
	assert.False(t, m.SetScale("ghost", 2))
	assert.False(t, m.AddTextAnchor(context.Background(), "ghost", 0, "text", nil))

	// These must not panic on unknown panes.
	m.FocusAnchor("ghost", "a")
	m.ClearFocus("ghost")
	m.RemovePane("ghost")
	m.Flush("ghost")
	m.SetActivePane("ghost")
	assert.Equal(t, "", m.ActivePane())
}

func TestPaneManager_DebounceCollapsesWrites(t *testing.T) {
	m, paneStore := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.2, Top: 20, Scale: 1}))
	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.4, Top: 40, Scale: 1}))
	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.6, Top: 60, Scale: 1}))

	// Before the debounce fires the record still holds the initial write.
	rec := paneStore.Get("pane-1")
	require.NotNil(t, rec)
	require.NotNil(t, rec.Scroll)
	assert.Equal(t, 0.0, rec.Scroll.Ratio)

	require.Eventually(t, func() bool {
		rec := paneStore.Get("pane-1")
		return rec != nil && rec.Scroll != nil && rec.Scroll.Ratio == 0.6
	}, time.Second, 5*time.Millisecond)
}

func TestPaneManager_FlushForcesWrite(t *testing.T) {
	m, paneStore := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.3, Top: 30, Scale: 1}))
	m.Flush("pane-1")

	rec := paneStore.Get("pane-1")
	require.NotNil(t, rec)
	require.NotNil(t, rec.Scroll)
	assert.Equal(t, 0.3, rec.Scroll.Ratio)
}

func TestPaneManager_RemovePane_FlushesAndKeepsRecord(t *testing.T) {
	m, paneStore := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})
	m.SetActivePane("pane-1")

	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.8, Top: 80, Scale: 1}))
	m.RemovePane("pane-1")

	_, ok := m.Pane("pane-1")
	assert.False(t, ok)
	assert.Equal(t, "", m.ActivePane())

	// The resume record survives with the final position.
	rec := paneStore.Get("pane-1")
	require.NotNil(t, rec)
	require.NotNil(t, rec.Scroll)
	assert.Equal(t, 0.8, rec.Scroll.Ratio)
}

func TestPaneManager_SetActivePane_BumpsRestoreToken(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	m.SetActivePane("pane-1")
	m.SetActivePane("")
	m.SetActivePane("pane-1")

	state, ok := m.Pane("pane-1")
	require.True(t, ok)
	assert.Equal(t, 2, state.ScrollRestoreToken)
	assert.Equal(t, "pane-1", m.ActivePane())
}

func TestPaneManager_SetScale(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	require.True(t, m.SetScale("pane-1", 10))
	state, _ := m.Pane("pane-1")
	assert.Equal(t, 3.0, state.Scale)

	require.True(t, m.SetScale("pane-1", 0.1))
	state, _ = m.Pane("pane-1")
	assert.Equal(t, 0.5, state.Scale)

	// Re-applying the same value is a no-op.
	assert.False(t, m.SetScale("pane-1", 0.5))
	assert.False(t, m.SetScale("pane-1", 0.5005))
}

func TestPaneManager_FocusAnchor(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	m.FocusAnchor("pane-1", "anchor-1")
	state, _ := m.Pane("pane-1")
	assert.Equal(t, "anchor-1", state.FocusedAnchorID)

	m.ClearFocus("pane-1")
	state, _ = m.Pane("pane-1")
	assert.Equal(t, "", state.FocusedAnchorID)
}

func TestPaneManager_AddTextAnchor_Optimistic(t *testing.T) {
	m, _ := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	ok := m.AddTextAnchor(context.Background(), "pane-1", 2, "selected text", []domain.RectInput{
		{PageIndex: 2, X: 0.1, Y: 0.2, Width: 0.3, Height: 0.05},
	})
	require.True(t, ok)

	state, _ := m.Pane("pane-1")
	require.Len(t, state.Anchors, 1)
	assert.NotEmpty(t, state.Anchors[0].ID)
	assert.Zero(t, state.Anchors[0].DurableID)
	assert.Equal(t, "selected text", state.Anchors[0].Text)
}

func TestPaneManager_AddTextAnchor_ConfirmsDurable(t *testing.T) {
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ref, err := store.ReferenceStore().Create(context.Background(), domain.CreateReferenceInput{
		Type:  domain.ReferencePDF,
		Title: "paper",
	})
	require.NoError(t, err)

	paneStore, err := file.NewPaneStore(t.TempDir())
	require.NoError(t, err)

	m := NewPaneManager(paneStore, store.AnchorStore(), testDebounce)
	t.Cleanup(m.Close)

	m.SetPaneData("pane-1", driving.PaneData{ReferenceID: ref.ID, Name: "paper"})

	require.True(t, m.AddTextAnchor(context.Background(), "pane-1", 0, "highlight", []domain.RectInput{
		{PageIndex: 0, X: 0.1, Y: 0.1, Width: 0.5, Height: 0.04},
	}))

	var localID string
	require.Eventually(t, func() bool {
		state, ok := m.Pane("pane-1")
		if !ok || len(state.Anchors) != 1 {
			return false
		}
		localID = state.Anchors[0].ID
		return state.Anchors[0].DurableID != 0
	}, time.Second, 5*time.Millisecond)

	// The pane-local id is stable across confirmation.
	state, _ := m.Pane("pane-1")
	assert.Equal(t, localID, state.Anchors[0].ID)
	assert.False(t, state.Anchors[0].CreatedAt.IsZero())

	// Reopening materializes the durable anchor.
	state = m.SetPaneData("pane-2", driving.PaneData{ReferenceID: ref.ID, Name: "paper"})
	require.Len(t, state.Anchors, 1)
	assert.Equal(t, "highlight", state.Anchors[0].Text)
	assert.NotZero(t, state.Anchors[0].DurableID)
}

func TestPaneManager_Close(t *testing.T) {
	m, paneStore := newTestManager(t)
	m.SetPaneData("pane-1", driving.PaneData{Name: "doc"})

	require.True(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.9, Top: 90, Scale: 1}))
	m.Close()

	rec := paneStore.Get("pane-1")
	require.NotNil(t, rec)
	require.NotNil(t, rec.Scroll)
	assert.Equal(t, 0.9, rec.Scroll.Ratio)

	// Mutations after close no-op.
	assert.False(t, m.SetScrollPosition("pane-1", domain.ScrollPosition{Ratio: 0.1, Top: 1, Scale: 1}))
}
