// Package logging assembles structured slog loggers and formatting helpers used
// across shotpath packages.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes small attribute helpers so library code can tag log
// lines with the component, path, and reference path they concern. The package
// also provides a no-op logger that library constructors fall back to when the
// caller does not inject one.
package logging
