// Package pipeline sequences the dataset consistency passes and holds the
// per-dataset run lock. Order is fixed: identifier resolution first, then
// citation cleanup, then asset synchronization.
package pipeline
