// Package entity models the two kinds of things a VFX path can name: a single
// File, or a Sequence of numbered frame files such as "plate.####.exr".
//
// Entity is a closed interface implemented by *File and *Sequence only;
// callers switch on Kind or on the concrete type. Identity is the reference
// path, a disk-independent string in which sequence frame digits are written
// as a single "#". Two entities are equal when they are of the same kind and
// share a reference path (see Equal and KeyOf).
//
// A Sequence reads the disk lazily. The outcome of a scan is held in an
// explicit ScanResult that callers can inspect with Cached, refresh with
// Rescan, or drop with Invalidate; SyncLocally invalidates it as well.
package entity
