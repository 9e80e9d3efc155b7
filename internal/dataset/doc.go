// Package dataset is the persistence layer for the news dataset tree: record
// parsing with unknown-key preservation, recursive file discovery, whole-file
// atomic rewrites, and the derived image path scheme
// images/<file_base>/<id>.png.
package dataset
