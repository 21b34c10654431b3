// Package layout computes and reconciles window geometry for the
// workspace state engine.
//
// This package is pure: nothing here reads or writes stored state. The
// only external input is an optional viewport query, injected so hosts
// without an observable display surface fall back to fixed constants.
//
// Key Components:
//   - Minimum: The hard floor for every layout scalar
//   - Geometry: Default (bounded, centered) and Maximum (viewport-filling)
//     layout computation
//   - Reconciler: Defined-field overlay merge with clamp-to-default
//   - Validate: Total normalization pass flooring every scalar
//
// The merge clamps only against exceeding the default size upward;
// the validation pass separately enforces the minimum. Merge keeps
// windows from silently growing past the comfortable default, while
// validation keeps them from ever being too small to use.
package layout
