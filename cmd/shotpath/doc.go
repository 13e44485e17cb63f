// Package main hosts the shotpath CLI entrypoint and command graph.
//
// Each command is a thin wrapper over an internal package: version parsing
// and discovery, entity inspection and copying, frame-range scans, site
// syncing, and the SQLite catalog. Configuration and logging are resolved
// once per invocation by the command context so subcommands only format
// results.
//
// Add behaviour to the internal packages first, then surface it here.
package main
