package version

import (
	"errors"
	"testing"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Version
	}{
		{"full", "/shows/abc/shots/010/comp/abc_010_comp_v003_t02_jd.0001.exr", Version{Number: 3, Take: 2, HasTake: true, User: "jd"}},
		{"plain file", "plainfile.exr", Sentinel},
		{"version only", "comp_v0001.nk", New(1)},
		{"single digit take", "shot_v12_t3.exr", NewWithTake(12, 3)},
		{"suffix is not a user", "plate_v01_beauty.exr", New(1)},
		{"three letter user", "plate_v01_abc.exr", New(1).WithUser("abc")},
		{"user at end", "plate_v01_jd", New(1).WithUser("jd")},
		{"fields from different matches", "/p/x_v02_jd/x_v05_t04.exr", Version{Number: 2, Take: 4, HasTake: true, User: "jd"}},
		{"zero number replaced", "/p/x_v00/x_v07.exr", New(7)},
		{"zero take replaced", "/p/x_v01_t00/x_v01_t05.exr", NewWithTake(1, 5)},
		{"first non zero number kept", "/show/comp_v03/comp_v00_t02_jd.nk", Version{Number: 3, Take: 2, HasTake: true, User: "jd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVersion(tt.path); got != tt.want {
				t.Fatalf("ExtractVersion(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		v     Version
		full  string
		label string
	}{
		{New(1), "v01", "v01"},
		{NewWithTake(3, 2), "v03_t02", "v03_t02"},
		{NewWithTake(3, 0), "v03", "v03"},
		{NewWithTake(12, 104).WithUser("jd"), "v12_t104_jd", "v12_t104"},
		{Sentinel, "v00", "v00"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.full {
			t.Errorf("String(%+v) = %q, want %q", tt.v, got, tt.full)
		}
		if got := tt.v.Label(false); got != tt.label {
			t.Errorf("Label(%+v) = %q, want %q", tt.v, got, tt.label)
		}
	}
}

func TestCompareOrdersMissingTakeFirst(t *testing.T) {
	ordered := []Version{New(1), NewWithTake(1, 0), NewWithTake(1, 2), NewWithTake(1, 2).WithUser("ab"), New(2)}
	for i := 1; i < len(ordered); i++ {
		if Compare(ordered[i-1], ordered[i]) >= 0 {
			t.Fatalf("expected %+v < %+v", ordered[i-1], ordered[i])
		}
	}
}

func TestExtractFileParts(t *testing.T) {
	parts, ok := ExtractFileParts("/s/plate_v003_t02_jd_beauty.1001.exr")
	if !ok {
		t.Fatal("expected file parts")
	}
	want := FileParts{
		Basename:  "plate",
		Version:   Version{Number: 3, Take: 2, HasTake: true, User: "jd"},
		Extension: ".exr",
		Frame:     "1001",
		HasFrame:  true,
		Suffix:    "beauty",
	}
	if parts != want {
		t.Fatalf("parts = %+v, want %+v", parts, want)
	}

	parts, ok = ExtractFileParts("shot_010_v01.nk")
	if !ok || parts.Basename != "shot_010" || parts.Version != New(1) || parts.HasFrame || parts.Suffix != "" || parts.Extension != ".nk" {
		t.Fatalf("unexpected parts for shot_010_v01.nk: %+v ok=%v", parts, ok)
	}

	if _, ok := ExtractFileParts("/s/plate.1001.exr"); ok {
		t.Fatal("expected no parts for unversioned name")
	}
}

func TestExtractShot(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/shows/abc/shots/010/comp/x.nk", "010", true},
		{"/shows/abc/shots/010", "010", true},
		{"/shows/abc/shots/010/shots/020/x.nk", "020", true},
		{"/shows/abc/assets/chair/x.nk", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractShot(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractShot(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractBasenameLabel(t *testing.T) {
	if got, ok := ExtractBasenameLabel("plate_v003.exr"); !ok || got != "plate" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := ExtractBasenameLabel("plate.exr"); ok {
		t.Fatal("expected no label for unversioned name")
	}
}

func TestUpdateVersionRoundTrip(t *testing.T) {
	path := "/s/comp_v01_t02/comp_v01_t02.nk"
	target := NewWithTake(3, 1)

	updated, err := UpdateVersion(path, target)
	if err != nil {
		t.Fatalf("UpdateVersion: %v", err)
	}
	if updated != "/s/comp_v03_t01/comp_v01_t02.nk" {
		t.Fatalf("only the first occurrence should change, got %q", updated)
	}
	got := ExtractVersion(updated)
	if got.Number != target.Number || got.Take != target.Take {
		t.Fatalf("round trip = %+v, want %+v", got, target)
	}
}

func TestUpdateVersionRequiresTake(t *testing.T) {
	_, err := UpdateVersion("/s/comp_v01_t02.nk", New(4))
	if !errors.Is(err, ErrTakeRequired) {
		t.Fatalf("expected ErrTakeRequired, got %v", err)
	}
	got, err := UpdateVersion("/s/comp_v01.nk", NewWithTake(4, 1))
	if err != nil || got != "/s/comp_v01.nk" {
		t.Fatalf("path without take should be unchanged, got %q, %v", got, err)
	}
}

func TestPatterns(t *testing.T) {
	versionTests := map[string]string{
		"/s/comp_v01_t02_jd.nk":    "/s/comp_v*.nk",
		"/s/comp_v01_beauty.exr":   "/s/comp_v*_beauty.exr",
		"/s/v01/comp_v01/c_v02.nk": "/s/v01/comp_v*/c_v*.nk",
		"/s/plate.exr":             "/s/plate.exr",
	}
	for in, want := range versionTests {
		if got := VersionPattern(in); got != want {
			t.Errorf("VersionPattern(%q) = %q, want %q", in, got, want)
		}
	}

	takeTests := map[string]string{
		"/s/comp_v01_t02.nk":    "/s/comp_v01_t*.nk",
		"/s/comp_v01_t002_a.nk": "/s/comp_v01_t*_a.nk",
		"/s/comp_v01.nk":        "/s/comp_v01_t*.nk",
		"/s/comp_v01_jd.nk":     "/s/comp_v01_t*_jd.nk",
		"/s/plate.exr":          "/s/plate.exr",
	}
	for in, want := range takeTests {
		if got := TakePattern(in); got != want {
			t.Errorf("TakePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
