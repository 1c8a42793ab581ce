package services

import (
	"math"

	"github.com/stroma-labs/stroma-cli/internal/core/domain"
)

// Scroll and zoom tolerances. Changes smaller than these are presentation
// jitter from layout rounding, not user intent, and are not persisted.
const (
	scrollRatioTolerance = 1e-4
	scrollTopTolerance   = 0.5
	scrollScaleTolerance = 1e-4

	scaleTolerance = 1e-3

	// MinScale and MaxScale bound the display zoom.
	MinScale = 0.5
	MaxScale = 3.0
)

// NormalizeScrollPosition validates and clamps a scroll position. Non-finite
// fields or a non-positive scale reject the whole value; ratio clamps to
// [0,1] and top to >= 0.
func NormalizeScrollPosition(pos domain.ScrollPosition) (domain.ScrollPosition, bool) {
	if !isFinite(pos.Ratio) || !isFinite(pos.Top) || !isFinite(pos.Scale) {
		return domain.ScrollPosition{}, false
	}
	if pos.Scale <= 0 {
		return domain.ScrollPosition{}, false
	}

	pos.Ratio = math.Min(1, math.Max(0, pos.Ratio))
	pos.Top = math.Max(0, pos.Top)
	return pos, true
}

// ScrollWithinTolerance reports whether two scroll positions are close enough
// to be treated as the same position.
func ScrollWithinTolerance(a, b domain.ScrollPosition) bool {
	return math.Abs(a.Ratio-b.Ratio) < scrollRatioTolerance &&
		math.Abs(a.Top-b.Top) < scrollTopTolerance &&
		math.Abs(a.Scale-b.Scale) < scrollScaleTolerance
}

// ClampScale bounds a zoom value to the displayable range.
func ClampScale(scale float64) float64 {
	return math.Min(MaxScale, math.Max(MinScale, scale))
}

// StoredScrollPosition extracts the resume scroll position from a pane
// record. The structured field wins; the legacy flat fields are a fallback
// for records written before the envelope carried ScrollPosition. A nil
// record or one with no usable scroll yields the default position.
func StoredScrollPosition(rec *domain.PaneRecord) domain.ScrollPosition {
	def := domain.ScrollPosition{Ratio: 0, Top: 0, Scale: 1}
	if rec == nil {
		return def
	}

	if rec.Scroll != nil {
		if pos, ok := NormalizeScrollPosition(*rec.Scroll); ok {
			return pos
		}
		return def
	}

	if rec.ScrollRatio != nil || rec.ScrollTop != nil || rec.ScrollScale != nil {
		pos := def
		if rec.ScrollRatio != nil {
			pos.Ratio = *rec.ScrollRatio
		}
		if rec.ScrollTop != nil {
			pos.Top = *rec.ScrollTop
		}
		if rec.ScrollScale != nil {
			pos.Scale = *rec.ScrollScale
		}
		if norm, ok := NormalizeScrollPosition(pos); ok {
			return norm
		}
	}
	return def
}

// StoredScale extracts the resume zoom from a pane record, falling back to
// the scroll position's capture scale, then to 1.
func StoredScale(rec *domain.PaneRecord) float64 {
	if rec == nil {
		return 1
	}
	if rec.Scale > 0 && isFinite(rec.Scale) {
		return ClampScale(rec.Scale)
	}
	if scroll := StoredScrollPosition(rec); scroll.Scale > 0 {
		return ClampScale(scroll.Scale)
	}
	return 1
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
