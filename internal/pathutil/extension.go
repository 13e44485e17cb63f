package pathutil

import "strings"

// SpecialExtensions are multi-dot suffixes treated as a single extension.
var SpecialExtensions = []string{".bgeo.sc"}

// ExtractExtension returns the extension of path, including the leading dot.
// Compound extensions listed in SpecialExtensions are returned whole, so
// "cache.bgeo.sc" yields ".bgeo.sc" rather than ".sc".
func ExtractExtension(path string) string {
	for _, ext := range SpecialExtensions {
		if strings.HasSuffix(path, ext) {
			return ext
		}
	}
	_, ext := splitExt(path)
	return ext
}

// RemoveExtension returns path without the extension ExtractExtension reports.
func RemoveExtension(path string) string {
	for _, ext := range SpecialExtensions {
		if strings.HasSuffix(path, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	root, _ := splitExt(path)
	return root
}

// splitExt splits on the last dot of the final path element. Leading dots of
// the element do not start an extension (".profile" has none).
func splitExt(path string) (string, string) {
	sep := strings.LastIndexByte(path, '/')
	dot := strings.LastIndexByte(path, '.')
	if dot <= sep {
		return path, ""
	}
	for i := sep + 1; i < dot; i++ {
		if path[i] != '.' {
			return path[:dot], path[dot:]
		}
	}
	return path, ""
}
