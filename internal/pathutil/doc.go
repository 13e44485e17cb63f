// Package pathutil holds the small filesystem and naming helpers shared by the
// version, entity, and catalog packages: name sanitising, compound-extension
// aware extension handling, recursive sizes, owner lookup, and unique ids for
// generated files.
package pathutil
