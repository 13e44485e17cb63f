package version

import (
	"cmp"
	"fmt"
	"strings"
)

// Version is a version number with an optional take and optional user
// initials. It is a comparable value and can be used as a map key.
type Version struct {
	Number  int
	Take    int
	HasTake bool
	User    string
}

// Sentinel is returned by ExtractVersion when a path carries no version.
var Sentinel = Version{Number: 0, Take: 0, HasTake: true}

// New returns a version without take or user.
func New(number int) Version {
	return Version{Number: number}
}

// NewWithTake returns a version with a take and no user.
func NewWithTake(number, take int) Version {
	return Version{Number: number, Take: take, HasTake: true}
}

// WithUser returns a copy of v stamped with user initials.
func (v Version) WithUser(user string) Version {
	v.User = user
	return v
}

// IsSentinel reports whether v is the "no version found" value.
func (v Version) IsSentinel() bool {
	return v == Sentinel
}

// String renders v as v<NN>[_t<NN>][_<user>]. A zero take is not rendered.
func (v Version) String() string {
	return v.Label(true)
}

// Label renders v like String, optionally leaving out the user initials.
func (v Version) Label(includeUser bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "v%02d", v.Number)
	if v.HasTake && v.Take != 0 {
		fmt.Fprintf(&b, "_t%02d", v.Take)
	}
	if includeUser && v.User != "" {
		b.WriteByte('_')
		b.WriteString(v.User)
	}
	return b.String()
}

// sortTake orders a missing take below every real take.
func (v Version) sortTake() int {
	if !v.HasTake {
		return -1
	}
	return v.Take
}

// Compare orders versions by number, then take, then user initials.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	if c := cmp.Compare(a.sortTake(), b.sortTake()); c != 0 {
		return c
	}
	return strings.Compare(a.User, b.User)
}
