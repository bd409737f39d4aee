// Package logging constructs the slog loggers used across peloton.
//
// Two output formats are supported: a compact key=value console format for
// interactive use and JSON for log collection. Components obtain a child
// logger through NewComponentLogger so every record carries a component
// attribute, and tests use NewNop to silence output entirely.
package logging
