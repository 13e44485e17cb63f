package version

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "shot_v01_t01_jd.exr", "shot_v02_t01_jd.exr")

	got, ok := FindLatest(filepath.Join(dir, "shot_v01_t01_jd.exr"))
	if !ok {
		t.Fatal("expected a latest path")
	}
	if want := filepath.Join(dir, "shot_v02_t01_jd.exr"); got != want {
		t.Fatalf("FindLatest = %q, want %q", got, want)
	}
}

func TestFindLatestOrdersNumericallyAndByTake(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "comp_v9_t05.nk", "comp_v10.nk", "comp_v10_t01.nk", "comp_v10_t00.nk")

	got, ok := NewFinder().FindLatest(filepath.Join(dir, "comp_v01.nk"))
	if !ok || filepath.Base(got) != "comp_v10_t01.nk" {
		t.Fatalf("FindLatest = %q, %v", got, ok)
	}
}

func TestFindLatestBreaksTiesOnUser(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "comp_v02_t01_ab.nk", "comp_v02_t01_zz.nk", "comp_v01_t09_zz.nk")

	got, _ := FindLatest(filepath.Join(dir, "comp_v01.nk"))
	if filepath.Base(got) != "comp_v02_t01_zz.nk" {
		t.Fatalf("FindLatest = %q", got)
	}
}

func TestFindLatestNothingOnDisk(t *testing.T) {
	if got, ok := FindLatest(filepath.Join(t.TempDir(), "comp_v01.nk")); ok || got != "" {
		t.Fatalf("expected no result, got %q", got)
	}
}

func TestFindAllVersions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "comp_v01.nk", "comp_v01_t02.nk", "comp_v03_t01_jd.nk", "other_v01.nk")

	got := FindAllVersions(filepath.Join(dir, "comp_v01.nk"))
	want := map[Version]string{
		New(1):                           filepath.Join(dir, "comp_v01.nk"),
		NewWithTake(1, 2):                filepath.Join(dir, "comp_v01_t02.nk"),
		NewWithTake(3, 1).WithUser("jd"): filepath.Join(dir, "comp_v03_t01_jd.nk"),
	}
	if len(got) != len(want) {
		t.Fatalf("FindAllVersions = %v, want %v", got, want)
	}
	for v, p := range want {
		if got[v] != p {
			t.Fatalf("version %s: got %q, want %q", v, got[v], p)
		}
	}
}

func TestNextAvailableTake(t *testing.T) {
	dir := t.TempDir()
	if got := NextAvailableTake(filepath.Join(dir, "shot_v01.exr")); got != 1 {
		t.Fatalf("empty dir: got %d, want 1", got)
	}

	touch(t, dir, "shot_v01_t01.exr", "shot_v01_t03.exr", "shot_v02_t07.exr")
	for _, query := range []string{"shot_v01.exr", "shot_v01_t01.exr"} {
		if got := NextAvailableTake(filepath.Join(dir, query)); got != 4 {
			t.Fatalf("%s: got %d, want 4", query, got)
		}
	}
}

func TestFinderUsesInjectedGlob(t *testing.T) {
	var patterns []string
	f := NewFinder(WithGlob(func(pattern string) ([]string, error) {
		patterns = append(patterns, pattern)
		return []string{"/x/comp_v04_t02.nk", "/x/comp_v01.nk"}, nil
	}))

	got, ok := f.FindLatest("/x/comp_v01.nk")
	if !ok || got != "/x/comp_v04_t02.nk" {
		t.Fatalf("FindLatest = %q, %v", got, ok)
	}
	if f.NextAvailableTake("/x/comp_v04.nk") != 3 {
		t.Fatal("expected take 3 from injected matches")
	}
	if patterns[0] != "/x/comp_v*.nk" || patterns[1] != "/x/comp_v04_t*.nk" {
		t.Fatalf("unexpected glob patterns %v", patterns)
	}
}

func TestFinderGlobErrorMeansNoMatches(t *testing.T) {
	f := NewFinder(WithGlob(func(string) ([]string, error) {
		return nil, errors.New("bad pattern")
	}))
	if _, ok := f.FindLatest("/x/comp_v01.nk"); ok {
		t.Fatal("expected no result on glob error")
	}
	if got := f.NextAvailableTake("/x/comp_v01.nk"); got != 1 {
		t.Fatalf("NextAvailableTake = %d, want 1", got)
	}
}
