// Package logging assembles structured slog loggers and formatting helpers used
// across curator commands.
//
// It owns the console/JSON handlers, routes output to stderr plus an optional
// per-run log file, and exposes the standardized field keys every batch emits
// (run id, slice, event type). The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command emits
// log lines with the same shape.
package logging
