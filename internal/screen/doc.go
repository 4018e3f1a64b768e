// Package screen holds the client-side mirror of the engine's grids,
// windows, and highlight state. Redraw events mutate a private working
// copy; a flush publishes an immutable Snapshot that render and input
// code read without locking.
package screen
