// Package services holds cross-cutting helpers for the external capability
// clients: the sentinel error taxonomy used to classify failures and the
// bounded retry policy consumed by the generation backends.
package services
