// Package resolver implements the collision-resolution pass: duplicate
// record identifiers are re-minted, associated image assets follow the
// rename, and every touched dataset file is rewritten once.
package resolver
