// Package workspace provides application lifecycle management for the
// window state engine.
//
// This package is the single mutating entry point for opening,
// updating and closing application entries. The full registry lives
// under one storage key and is re-read at the start of every operation
// and written back, in full, at the end: the store is the source of
// truth, never a long-lived in-memory copy.
//
// Key Components:
//   - Manager: Lifecycle coordinator (List, ListOpen, Get, Update, Close)
//   - Event: Change notifications for the update stream
//
// Example Usage:
//
//	mgr := workspace.NewManager(store, "", reconciler, logger)
//	app, err := mgr.Update(ctx, types.ApplicationPatch{UUID: id})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = mgr.Close(ctx, app.UUID)
package workspace
