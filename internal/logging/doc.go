// Package logging builds the slog loggers used across gazette and defines the
// standardized attribute keys components share. The console handler renders a
// compact "TIME LEVEL component: msg key=value" line; the JSON handler is
// intended for machine consumption.
package logging
