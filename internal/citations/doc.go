// Package citations removes "[cite: N]" source markers left behind by the
// article extraction step.
package citations
