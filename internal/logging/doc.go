// Package logging assembles structured slog loggers and formatting helpers used
// across cuekit.
//
// It owns the configurable console/JSON handlers, the optional JSON log file
// tee, and context-aware helpers so conversion code can tag log lines with
// run IDs, stages, and source paths. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging
