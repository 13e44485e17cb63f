package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// User initials are only accepted when followed by one of "_./" or the end
	// of the string; see userTerminated.
	versionTakeUserRE = regexp.MustCompile(`_v([0-9]+)(?:_t([0-9]+))?(?:_([a-z]{2,3}))?`)
	versionTakeRE     = regexp.MustCompile(`_v[0-9]+_t[0-9]+`)
	takeRE            = regexp.MustCompile(`_t([0-9]{2,})`)
	shotRE            = regexp.MustCompile(`.*/shots/([^/]+)`)
	basenameVersionRE = regexp.MustCompile(`^([.]?[^.]+)_v(.+)`)
	filePartsRE       = regexp.MustCompile(
		`^([.]?[^.]+)` + // basename
			`_v([0-9]+)` + // version
			`(?:_t([0-9]+))?` + // take
			`(?:_([a-z]{2,3}))?` + // user
			`(?:[._]([^.]+))??` + // suffix
			`(?:[.]([0-9]+))?` + // frame
			`([.][a-zA-Z]+)$`, // extension
	)
)

// ErrTakeRequired is returned by UpdateVersion for a version without a take.
var ErrTakeRequired = errors.New("version has no take")

// FileParts is the breakdown of a conventionally named file.
type FileParts struct {
	Basename  string
	Version   Version
	Extension string
	Frame     string
	HasFrame  bool
	Suffix    string
}

type versionMatch struct {
	start, end int
	versionEnd int
	version    string
	take       string
	user       string
}

func findVersionMatches(s string) []versionMatch {
	indexes := versionTakeUserRE.FindAllStringSubmatchIndex(s, -1)
	matches := make([]versionMatch, 0, len(indexes))
	for _, idx := range indexes {
		m := versionMatch{
			start:      idx[0],
			end:        idx[1],
			versionEnd: idx[3],
			version:    s[idx[2]:idx[3]],
		}
		if idx[4] >= 0 {
			m.take = s[idx[4]:idx[5]]
		}
		if idx[6] >= 0 {
			if userTerminated(s, idx[7]) {
				m.user = s[idx[6]:idx[7]]
			} else {
				// Drop "_<user>" from the match.
				m.end = idx[6] - 1
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// userTerminated reports whether initials ending at end are followed by a
// separator. Shorter initials would be followed by another letter, so a
// failure here means the match has no user at all.
func userTerminated(s string, end int) bool {
	if end == len(s) {
		return true
	}
	switch s[end] {
	case '_', '.', '/':
		return true
	}
	return false
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ExtractVersion returns the version information carried by path.
//
// Every "_vNN[_tNN][_user]" occurrence is considered in order. Number, take
// and user are each taken from the first occurrence that supplies a non-empty
// value for them, so "/show/comp_v03/comp_v00_t02_jd.nk" yields v03_t02_jd.
// A zero number or take counts as empty and may be replaced by a later
// occurrence. Paths without any occurrence yield Sentinel.
func ExtractVersion(path string) Version {
	matches := findVersionMatches(path)
	if len(matches) == 0 {
		return Sentinel
	}

	var out Version
	haveNumber := false
	for _, m := range matches {
		if !haveNumber || out.Number == 0 {
			out.Number = atoi(m.version)
			haveNumber = true
		}
		if (!out.HasTake || out.Take == 0) && m.take != "" {
			out.Take = atoi(m.take)
			out.HasTake = true
		}
		if out.User == "" {
			out.User = m.user
		}
	}
	return out
}

// ExtractFileParts breaks the final element of path into basename, version,
// suffix, frame and extension. ok is false when the name does not follow the
// convention.
func ExtractFileParts(path string) (FileParts, bool) {
	name := path[strings.LastIndexByte(path, '/')+1:]
	m := filePartsRE.FindStringSubmatch(name)
	if m == nil {
		return FileParts{}, false
	}

	v := New(atoi(m[2]))
	if m[3] != "" {
		v.Take = atoi(m[3])
		v.HasTake = true
	}
	v.User = m[4]

	return FileParts{
		Basename:  m[1],
		Version:   v,
		Extension: m[7],
		Frame:     m[6],
		HasFrame:  m[6] != "",
		Suffix:    m[5],
	}, true
}

// ExtractShot returns the path element that follows the last "/shots/".
func ExtractShot(path string) (string, bool) {
	m := shotRE.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractBasenameLabel returns the part of a file name in front of its
// version marker: "plate_v003.exr" yields "plate".
func ExtractBasenameLabel(name string) (string, bool) {
	m := basenameVersionRE.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// UpdateVersion rewrites the first "_vNN_tNN" occurrence in path with v's
// number and take. v must carry a take. Paths without such an occurrence are
// returned unchanged.
func UpdateVersion(path string, v Version) (string, error) {
	if !v.HasTake {
		return "", fmt.Errorf("update %s to %s: %w", path, v, ErrTakeRequired)
	}
	loc := versionTakeRE.FindStringIndex(path)
	if loc == nil {
		return path, nil
	}
	return path[:loc[0]] + fmt.Sprintf("_v%02d_t%02d", v.Number, v.Take) + path[loc[1]:], nil
}

type takeMatch struct {
	start, end int
	take       string
}

// findTakeMatches returns "_tNN" occurrences (two digits or more) followed by
// "_", "." or the end of the string.
func findTakeMatches(s string) []takeMatch {
	var out []takeMatch
	for _, idx := range takeRE.FindAllStringSubmatchIndex(s, -1) {
		end := idx[1]
		if end != len(s) && s[end] != '_' && s[end] != '.' {
			continue
		}
		out = append(out, takeMatch{start: idx[0], end: end, take: s[idx[2]:idx[3]]})
	}
	return out
}

// VersionPattern replaces every version/take/user segment of path with "_v*".
func VersionPattern(path string) string {
	matches := findVersionMatches(path)
	if len(matches) == 0 {
		return path
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(path[last:m.start])
		b.WriteString("_v*")
		last = m.end
	}
	b.WriteString(path[last:])
	return b.String()
}

// TakePattern replaces every take segment of path with "_t*". A path with a
// version but no take gets "_t*" inserted after the digits of its last
// version, so "shot_v01.exr" becomes "shot_v01_t*.exr".
func TakePattern(path string) string {
	takes := findTakeMatches(path)
	if len(takes) == 0 {
		versions := findVersionMatches(path)
		if len(versions) == 0 {
			return path
		}
		at := versions[len(versions)-1].versionEnd
		return path[:at] + "_t*" + path[at:]
	}
	var b strings.Builder
	last := 0
	for _, m := range takes {
		b.WriteString(path[last:m.start])
		b.WriteString("_t*")
		last = m.end
	}
	b.WriteString(path[last:])
	return b.String()
}

// extractTake returns the first take number carried by path.
func extractTake(path string) (int, bool) {
	takes := findTakeMatches(path)
	if len(takes) == 0 {
		return 0, false
	}
	return atoi(takes[0].take), true
}
