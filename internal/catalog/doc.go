// Package catalog keeps an SQLite index of scanned entities so shows can be
// queried by shot, kind, or path without touching the filesystem again.
//
// Each row is keyed by reference path and stores the entity's Info alongside
// version and shot metadata parsed from that path. Reads go straight to the
// database; writes are serialised across processes with an advisory file lock
// next to the database so concurrent indexers on a shared volume do not
// interleave their transactions.
package catalog
