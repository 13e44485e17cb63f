package pathutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var defaultUnsupported = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// SanitiseName cleans a free-form label into a lower-case identifier.
//
// Every run of characters outside [a-zA-Z0-9_] and extraChars becomes a single
// underscore, the result is lower-cased, and leading/trailing underscores are
// trimmed:
//
//	SanitiseName("lighting (test)", "") == "lighting_test"
//	SanitiseName("my-text#1", "-#")     == "my-text#1"
func SanitiseName(name, extraChars string) string {
	pattern := defaultUnsupported
	if extraChars != "" {
		compiled, err := regexp.Compile(`[^a-zA-Z0-9_` + classEscape(extraChars) + `]+`)
		if err == nil {
			pattern = compiled
		}
	}
	cleaned := pattern.ReplaceAllString(name, "_")
	cleaned = cases.Lower(language.Und).String(cleaned)
	return strings.Trim(cleaned, "_")
}

// classEscape quotes characters for use inside a regexp character class.
// ASCII punctuation is backslash-escaped; everything else is literal.
func classEscape(chars string) string {
	var b strings.Builder
	for _, r := range chars {
		if r < 0x80 && isASCIIPunct(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
