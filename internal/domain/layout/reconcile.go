package layout

import (
	"math"

	"github.com/glasspane/workspaced/internal/shared/types"
)

// Reconciler merges a caller-supplied partial layout onto an entry's
// previous layout and enforces bounds.
type Reconciler struct {
	geometry *Geometry
}

// NewReconciler creates a reconciler backed by the given geometry.
func NewReconciler(geometry *Geometry) *Reconciler {
	return &Reconciler{geometry: geometry}
}

// Merge overlays the patch's defined fields onto the previous layout,
// then clamps the result against the current default layout: a merged
// dimension exceeding the default snaps both the dimension and the
// matching position axis back to the default, so an oversized window
// gets a fresh placement rather than just a resize.
//
// When neither argument is present the merge degenerates to the
// default layout. The result may still carry unset fields; Validate
// floors those to the minimum.
func (r *Reconciler) Merge(patch *types.LayoutPatch, previous *types.Layout) types.LayoutPatch {
	if patch == nil && previous == nil {
		return AsPatch(r.geometry.Default(nil))
	}

	merged := types.LayoutPatch{}
	if previous != nil {
		merged = AsPatch(*previous)
	}
	if patch != nil {
		overlayDimension(&merged, patch.Dimension)
		overlayPosition(&merged, patch.Position)
	}

	def := r.geometry.Default(nil)
	if merged.Dimension != nil {
		if merged.Dimension.Height != nil && *merged.Dimension.Height > def.Dimension.Height {
			merged.Dimension.Height = types.Float(def.Dimension.Height)
			setY(&merged, def.Position.Y)
		}
		if merged.Dimension.Width != nil && *merged.Dimension.Width > def.Dimension.Width {
			merged.Dimension.Width = types.Float(def.Dimension.Width)
			setX(&merged, def.Position.X)
		}
	}

	return merged
}

// Reconcile is Merge followed by Validate.
func (r *Reconciler) Reconcile(patch *types.LayoutPatch, previous *types.Layout) types.Layout {
	return Validate(r.Merge(patch, previous))
}

// Validate materializes a merged layout into a fully-populated,
// in-bounds layout. Each of height, width, x and y becomes
// max(value-or-zero, minimum); z passes through untouched and is zero
// when never set, since stacking order is cosmetic. The function is
// total and idempotent.
func Validate(merged types.LayoutPatch) types.Layout {
	min := Minimum()

	out := types.Layout{}
	out.Dimension.Height = floored(field(merged.Dimension, func(d *types.DimensionPatch) *float64 { return d.Height }), min.Dimension.Height)
	out.Dimension.Width = floored(field(merged.Dimension, func(d *types.DimensionPatch) *float64 { return d.Width }), min.Dimension.Width)
	out.Position.X = floored(field(merged.Position, func(p *types.PositionPatch) *float64 { return p.X }), min.Position.X)
	out.Position.Y = floored(field(merged.Position, func(p *types.PositionPatch) *float64 { return p.Y }), min.Position.Y)
	if merged.Position != nil && merged.Position.Z != nil {
		out.Position.Z = *merged.Position.Z
	}
	return out
}

// AsPatch converts a concrete layout into a fully-defined patch.
func AsPatch(l types.Layout) types.LayoutPatch {
	return types.LayoutPatch{
		Dimension: &types.DimensionPatch{
			Height: types.Float(l.Dimension.Height),
			Width:  types.Float(l.Dimension.Width),
		},
		Position: &types.PositionPatch{
			X: types.Float(l.Position.X),
			Y: types.Float(l.Position.Y),
			Z: types.Float(l.Position.Z),
		},
	}
}

func overlayDimension(merged *types.LayoutPatch, patch *types.DimensionPatch) {
	if patch == nil {
		return
	}
	if merged.Dimension == nil {
		merged.Dimension = &types.DimensionPatch{}
	}
	if patch.Height != nil {
		merged.Dimension.Height = types.Float(*patch.Height)
	}
	if patch.Width != nil {
		merged.Dimension.Width = types.Float(*patch.Width)
	}
}

func overlayPosition(merged *types.LayoutPatch, patch *types.PositionPatch) {
	if patch == nil {
		return
	}
	if merged.Position == nil {
		merged.Position = &types.PositionPatch{}
	}
	if patch.X != nil {
		merged.Position.X = types.Float(*patch.X)
	}
	if patch.Y != nil {
		merged.Position.Y = types.Float(*patch.Y)
	}
	if patch.Z != nil {
		merged.Position.Z = types.Float(*patch.Z)
	}
}

func setY(merged *types.LayoutPatch, y float64) {
	if merged.Position == nil {
		merged.Position = &types.PositionPatch{}
	}
	merged.Position.Y = types.Float(y)
}

func setX(merged *types.LayoutPatch, x float64) {
	if merged.Position == nil {
		merged.Position = &types.PositionPatch{}
	}
	merged.Position.X = types.Float(x)
}

func field[T any](holder *T, pick func(*T) *float64) *float64 {
	if holder == nil {
		return nil
	}
	return pick(holder)
}

func floored(v *float64, min float64) float64 {
	if v == nil || math.IsNaN(*v) || *v < min {
		return min
	}
	return *v
}
