// Package types provides shared data structures for the workspaced backend.
//
// This package defines the core types used across all components of the
// window state engine, ensuring consistent shapes between the domain
// logic, the storage codec, and the API surface.
//
// Core Types:
//   - Application: One tracked window (identity, geometry, status)
//   - Layout, Dimension, Position: Window geometry
//   - Status, ApplicationState: Lifecycle flags
//
// Patch Types:
//   - ApplicationPatch: Partial update to one entry
//   - LayoutPatch, DimensionPatch, PositionPatch: Defined-field overlays;
//     a nil field always means "keep the previous value"
//
// Example Usage:
//
//	patch := types.ApplicationPatch{
//	    UUID: id,
//	    Layout: &types.LayoutPatch{
//	        Position: &types.PositionPatch{X: types.Float(120)},
//	    },
//	}
package types
