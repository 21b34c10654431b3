package layout

import (
	"github.com/glasspane/workspaced/internal/shared/types"
)

// Padding is the margin left between a computed window and the
// viewport edge, applied once per side.
const Padding = 16

const (
	minimumHeight = 240
	minimumWidth  = 300

	defaultHeightFloor = 784
	defaultHeightCeil  = 1200
	defaultWidthFloor  = 980
	defaultWidthCeil   = 1500

	fallbackViewportHeight = 1200
	fallbackViewportWidth  = 1500

	minimumZ = 100
	defaultZ = 10
)

// Viewport is the visible size of the host display surface.
type Viewport struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// ViewportFunc reports the current viewport when one is observable.
type ViewportFunc func() (Viewport, bool)

// Minimum returns the hard floor below which no window geometry may
// fall. Every scalar of a persisted layout is floored against it.
func Minimum() types.Layout {
	return types.Layout{
		Dimension: types.Dimension{Height: minimumHeight, Width: minimumWidth},
		Position:  types.Position{X: 0, Y: 0, Z: minimumZ},
	}
}

// Geometry computes viewport-relative layouts. It never consults
// stored state; the only input beyond its arguments is the optional
// viewport query.
type Geometry struct {
	viewport ViewportFunc
}

// NewGeometry creates a geometry calculator. The viewport query may be
// nil, in which case the fixed fallback viewport is used whenever a
// caller does not supply one explicitly.
func NewGeometry(viewport ViewportFunc) *Geometry {
	return &Geometry{viewport: viewport}
}

// Default computes the centered, bounded-size layout used as the
// comfortable baseline and as the upward clamp target. Height is kept
// within [784, 1200] and width within [980, 1500], each shrunk by
// 2*Padding; the window is centered in the viewport.
func (g *Geometry) Default(vp *Viewport) types.Layout {
	total := g.resolve(vp)

	height := clamp(total.Height, defaultHeightFloor, defaultHeightCeil) - 2*Padding
	width := clamp(total.Width, defaultWidthFloor, defaultWidthCeil) - 2*Padding

	return centered(total, height, width)
}

// Maximum computes a layout that fills the available viewport minus
// the padding margin. Callers request a maximized window by passing
// this layout instead of the default.
func (g *Geometry) Maximum(vp *Viewport) types.Layout {
	total := g.resolve(vp)

	height := total.Height - 2*Padding
	width := total.Width - 2*Padding

	return centered(total, height, width)
}

// resolve picks the viewport to lay out against: the explicit argument
// wins, then the injected query, then the fixed fallback. An explicit
// zero-height or zero-width viewport is a valid viewport, not a
// trigger for the fallback.
func (g *Geometry) resolve(vp *Viewport) Viewport {
	if vp != nil {
		return *vp
	}
	if g.viewport != nil {
		if observed, ok := g.viewport(); ok {
			return observed
		}
	}
	return Viewport{Height: fallbackViewportHeight, Width: fallbackViewportWidth}
}

func centered(total Viewport, height, width float64) types.Layout {
	return types.Layout{
		Dimension: types.Dimension{Height: height, Width: width},
		Position: types.Position{
			X: (total.Width - width) / 2,
			Y: (total.Height - height) / 2,
			Z: defaultZ,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
