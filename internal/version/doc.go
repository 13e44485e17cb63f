// Package version parses the studio file naming convention
//
//	<basename>_v<NN>[_t<NN>][_<user>][_<suffix>][.<frame>].<ext>
//
// into structured Version values, and discovers sibling versions and takes on
// disk by globbing a wildcarded form of a path.
//
// Parsing never fails: input that does not follow the convention yields the
// zero-ish Sentinel version, a false ok flag, or an empty map. Discovery is
// read-only and makes no assumption about directory listing order; results
// are made deterministic by sorting.
package version
