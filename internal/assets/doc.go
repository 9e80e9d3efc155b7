// Package assets keeps each record's illustration in step with its metadata:
// generating missing images through the describe/generate backends, adopting
// assets that already exist on disk, and reporting coverage.
package assets
