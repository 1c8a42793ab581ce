package services

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driven"
	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
	"github.com/stroma-labs/stroma-cli/internal/logger"
)

// defaultPersistDebounce is the trailing delay between a scroll or zoom
// change and the resume-record write it schedules.
const defaultPersistDebounce = 250 * time.Millisecond

// Ensure PaneManager implements the interface.
var _ driving.PaneReconciler = (*PaneManager)(nil)

// PaneManager keeps the in-memory pane map and reconciles it with the
// persisted resume records and the durable anchor store. All state mutation
// happens under one mutex; persistence is debounced per pane and flushed on
// teardown.
type PaneManager struct {
	mu     sync.Mutex
	panes  map[string]*domain.PaneState
	timers map[string]*time.Timer
	active string
	closed bool

	paneStore   driven.PaneStore
	anchorStore driven.AnchorStore
	debounce    time.Duration
}

// NewPaneManager creates a pane manager. A zero debounce selects the
// default; tests pass a short interval.
func NewPaneManager(paneStore driven.PaneStore, anchorStore driven.AnchorStore, debounce time.Duration) *PaneManager {
	if debounce <= 0 {
		debounce = defaultPersistDebounce
	}
	return &PaneManager{
		panes:       make(map[string]*domain.PaneState),
		timers:      make(map[string]*time.Timer),
		paneStore:   paneStore,
		anchorStore: anchorStore,
		debounce:    debounce,
	}
}

// SetPaneData builds a fresh pane entry. Scroll and scale seed from the
// stored resume record when one exists; the durable anchors for the bound
// reference are materialized into the pane's anchor list.
func (m *PaneManager) SetPaneData(paneID string, data driving.PaneData) domain.PaneState {
	var anchors []domain.PaneAnchor
	if data.ReferenceID != 0 && m.anchorStore != nil {
		stored, err := m.anchorStore.GetPdfTextForReference(context.Background(), data.ReferenceID)
		if err != nil {
			logger.Warn("loading anchors for reference %d: %v", data.ReferenceID, err)
		}
		anchors = make([]domain.PaneAnchor, 0, len(stored))
		for _, a := range stored {
			anchors = append(anchors, paneAnchorFromStored(a))
		}
	}

	rec := m.paneStore.Get(paneID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return domain.PaneState{}
	}

	m.cancelTimerLocked(paneID)

	state := &domain.PaneState{
		ReferenceID:    data.ReferenceID,
		Path:           data.Path,
		Name:           data.Name,
		Data:           data.Data,
		Anchors:        anchors,
		ScrollPosition: StoredScrollPosition(rec),
		Scale:          StoredScale(rec),
	}
	m.panes[paneID] = state
	m.persistLocked(paneID)

	return snapshot(state)
}

// RemovePane flushes once, cancels the debounce timer and deletes the pane.
// The resume record survives for the next open.
func (m *PaneManager) RemovePane(paneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.panes[paneID]; !ok {
		return
	}

	m.cancelTimerLocked(paneID)
	m.persistLocked(paneID)
	delete(m.panes, paneID)
	if m.active == paneID {
		m.active = ""
	}
}

// SetActivePane moves the active-pane pointer and bumps the newly focused
// pane's restore token so consumers reapply its scroll position.
func (m *PaneManager) SetActivePane(paneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = ""
	if paneID == "" {
		return
	}
	pane, ok := m.panes[paneID]
	if !ok {
		return
	}
	m.active = paneID
	pane.ScrollRestoreToken++
}

// ActivePane returns the active pane id, "" when none.
func (m *PaneManager) ActivePane() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Pane returns a snapshot of one pane's state.
func (m *PaneManager) Pane(paneID string) (domain.PaneState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane, ok := m.panes[paneID]
	if !ok {
		return domain.PaneState{}, false
	}
	return snapshot(pane), true
}

// AddTextAnchor appends an optimistic anchor and persists it in the
// background. Once the durable store confirms, the optimistic entry is
// replaced in place under its pane-local id; the pane having been torn down
// in the meantime is not an error.
func (m *PaneManager) AddTextAnchor(ctx context.Context, paneID string, pageIndex int, text string, rects []domain.RectInput) bool {
	m.mu.Lock()
	pane, ok := m.panes[paneID]
	if !ok || m.closed {
		m.mu.Unlock()
		return false
	}

	localID := uuid.NewString()
	pane.Anchors = append(pane.Anchors, domain.PaneAnchor{
		ID:        localID,
		PageIndex: pageIndex,
		Text:      text,
		Rects:     rects,
	})
	referenceID := pane.ReferenceID
	m.mu.Unlock()

	if referenceID == 0 || m.anchorStore == nil {
		return true
	}

	go func() {
		stored, err := m.anchorStore.CreatePdfText(ctx, domain.CreatePdfTextAnchorInput{
			ReferenceID: referenceID,
			PageIndex:   pageIndex,
			Text:        text,
			Rects:       rects,
		})
		if err != nil {
			logger.Warn("persisting anchor for pane %s: %v", paneID, err)
			return
		}
		m.confirmAnchor(paneID, localID, stored)
	}()
	return true
}

// confirmAnchor replaces an optimistic anchor with its durable form.
func (m *PaneManager) confirmAnchor(paneID, localID string, stored *domain.PdfTextAnchor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane, ok := m.panes[paneID]
	if !ok {
		return
	}
	for i := range pane.Anchors {
		if pane.Anchors[i].ID != localID {
			continue
		}
		pane.Anchors[i].DurableID = stored.ID
		pane.Anchors[i].CreatedAt = stored.CreatedAt
		pane.Anchors[i].UpdatedAt = stored.UpdatedAt
		return
	}
}

// FocusAnchor sets the pane's focused anchor.
func (m *PaneManager) FocusAnchor(paneID, anchorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pane, ok := m.panes[paneID]; ok {
		pane.FocusedAnchorID = anchorID
	}
}

// ClearFocus clears the pane's focused anchor.
func (m *PaneManager) ClearFocus(paneID string) {
	m.FocusAnchor(paneID, "")
}

// SetScrollPosition normalizes and applies a scroll change, scheduling a
// debounced resume-record write. Sub-tolerance changes and invalid input
// report false and write nothing.
func (m *PaneManager) SetScrollPosition(paneID string, pos domain.ScrollPosition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane, ok := m.panes[paneID]
	if !ok || m.closed {
		return false
	}

	norm, ok := NormalizeScrollPosition(pos)
	if !ok {
		return false
	}
	if ScrollWithinTolerance(pane.ScrollPosition, norm) {
		return false
	}

	pane.ScrollPosition = norm
	m.schedulePersistLocked(paneID)
	return true
}

// SetScale clamps and applies a zoom change, scheduling a debounced
// resume-record write. Near-identical values report false.
func (m *PaneManager) SetScale(paneID string, scale float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pane, ok := m.panes[paneID]
	if !ok || m.closed {
		return false
	}
	if !isFinite(scale) {
		return false
	}

	clamped := ClampScale(scale)
	if math.Abs(clamped-pane.Scale) < scaleTolerance {
		return false
	}

	pane.Scale = clamped
	m.schedulePersistLocked(paneID)
	return true
}

// Flush forces immediate persistence of the pane's current state and cancels
// any pending debounce timer.
func (m *PaneManager) Flush(paneID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.panes[paneID]; !ok {
		return
	}
	m.cancelTimerLocked(paneID)
	m.persistLocked(paneID)
}

// Close flushes every pane and cancels all timers. Persistence failures are
// logged, never returned; shutdown must not block on them.
func (m *PaneManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	for paneID := range m.panes {
		m.cancelTimerLocked(paneID)
		m.persistLocked(paneID)
	}
	m.closed = true
}

// schedulePersistLocked arms the pane's trailing debounce timer, replacing
// any pending one so rapid changes collapse into a single write.
func (m *PaneManager) schedulePersistLocked(paneID string) {
	m.cancelTimerLocked(paneID)
	m.timers[paneID] = time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			return
		}
		delete(m.timers, paneID)
		m.persistLocked(paneID)
	})
}

func (m *PaneManager) cancelTimerLocked(paneID string) {
	if t, ok := m.timers[paneID]; ok {
		t.Stop()
		delete(m.timers, paneID)
	}
}

// persistLocked writes the pane's resume record. No-op for unknown panes.
func (m *PaneManager) persistLocked(paneID string) {
	pane, ok := m.panes[paneID]
	if !ok {
		return
	}

	scroll := pane.ScrollPosition
	rec := domain.PaneRecord{
		ReferenceID: pane.ReferenceID,
		Path:        pane.Path,
		Name:        pane.Name,
		Scroll:      &scroll,
		Scale:       pane.Scale,
	}
	if err := m.paneStore.Put(paneID, rec); err != nil {
		logger.Warn("persisting pane %s: %v", paneID, err)
	}
}

// snapshot copies a pane state so callers cannot mutate manager-owned
// slices.
func snapshot(pane *domain.PaneState) domain.PaneState {
	out := *pane
	out.Anchors = make([]domain.PaneAnchor, len(pane.Anchors))
	copy(out.Anchors, pane.Anchors)
	return out
}

// paneAnchorFromStored materializes a durable anchor into its pane-local
// view. The pane-local id for confirmed anchors is the durable id rendered
// as text.
func paneAnchorFromStored(a domain.PdfTextAnchor) domain.PaneAnchor {
	rects := make([]domain.RectInput, 0, len(a.Rects))
	for _, r := range a.Rects {
		rects = append(rects, domain.RectInput{
			PageIndex: r.PageIndex,
			X:         r.X,
			Y:         r.Y,
			Width:     r.Width,
			Height:    r.Height,
		})
	}
	return domain.PaneAnchor{
		ID:        strconv.FormatInt(a.ID, 10),
		DurableID: a.ID,
		PageIndex: a.PageIndex,
		Text:      a.Text,
		Rects:     rects,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
