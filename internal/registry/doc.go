// Package registry indexes record identifiers across the whole dataset tree,
// case-insensitively, and mints fresh collision-free identifiers.
package registry
