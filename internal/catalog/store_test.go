package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"shotpath/internal/catalog"
	"shotpath/internal/testsupport"
)

func TestUpsertGetRoundTrip(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := catalog.Record{
		Ref:            "/prod/abc/shots/010/comp/abc_010_comp_v003_t02_jd.#.exr",
		Kind:           "sequence",
		Basename:       "abc_010_comp_v003_t02_jd",
		Label:          "abc_010_comp_v003_t02_jd.[1001-1005].exr",
		Online:         true,
		HasRange:       true,
		StartFrame:     1001,
		EndFrame:       1005,
		AvailableCount: 4,
		MissingFrames:  []int{1003},
		SizeBytes:      2048,
		Version:        3,
		Take:           2,
		HasTake:        true,
		User:           "jd",
		Shot:           "010",
		IndexedAt:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := store.Get(ctx, rec.Ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Shot != "010" || !got.HasTake || got.Take != 2 || !got.HasRange || got.StartFrame != 1001 {
		t.Fatalf("unexpected record %+v", got)
	}
	if !slices.Equal(got.MissingFrames, []int{1003}) || !got.IndexedAt.Equal(rec.IndexedAt) {
		t.Fatalf("unexpected missing frames or timestamp %+v", got)
	}

	rec.Online = false
	rec.HasTake = false
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, err = store.Get(ctx, rec.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if got.Online || got.HasTake {
		t.Fatalf("expected upsert to replace fields, got %+v", got)
	}
}

func TestGetAndDeleteMissing(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Get(ctx, "/nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "/nope"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if err := store.Upsert(ctx, catalog.Record{Kind: "file"}); err == nil {
		t.Fatal("expected error for empty reference path")
	}
}

func TestListFilters(t *testing.T) {
	store := testsupport.MustOpenCatalog(t, testsupport.NewConfig(t))
	ctx := context.Background()

	recs := []catalog.Record{
		{Ref: "/prod/shots/010/a.#.exr", Kind: "sequence", Basename: "a", Shot: "010", Online: true},
		{Ref: "/prod/shots/010/b.nk", Kind: "file", Basename: "b", Shot: "010"},
		{Ref: "/prod/shots/020/c.#.exr", Kind: "sequence", Basename: "c", Shot: "020", Online: true},
		{Ref: "/prod/shots/020x/d.nk", Kind: "file", Basename: "d", Shot: "020"},
		{Ref: "/prod/café/e.exr", Kind: "file", Basename: "e"},
	}
	if err := store.UpsertAll(ctx, recs); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{"all", catalog.Filter{}, []string{recs[4].Ref, recs[0].Ref, recs[1].Ref, recs[2].Ref, recs[3].Ref}},
		{"kind", catalog.Filter{Kind: "sequence"}, []string{recs[0].Ref, recs[2].Ref}},
		{"shot", catalog.Filter{Shot: "010"}, []string{recs[0].Ref, recs[1].Ref}},
		{"prefix", catalog.Filter{Prefix: "/prod/shots/020"}, []string{recs[2].Ref}},
		{"prefix trailing slash", catalog.Filter{Prefix: "/prod/shots/020/"}, []string{recs[2].Ref}},
		{"prefix partial name", catalog.Filter{Prefix: "/prod/shots/02"}, nil},
		{"prefix non-ascii", catalog.Filter{Prefix: "/prod/café"}, []string{recs[4].Ref}},
		{"prefix exact ref", catalog.Filter{Prefix: "/prod/café/e.exr"}, []string{recs[4].Ref}},
		{"online", catalog.Filter{OnlineOnly: true, Shot: "010"}, []string{recs[0].Ref}},
		{"limit", catalog.Filter{Limit: 1}, []string{recs[4].Ref}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			var refs []string
			for _, rec := range got {
				refs = append(refs, rec.Ref)
			}
			if !slices.Equal(refs, tt.want) {
				t.Fatalf("List = %v, want %v", refs, tt.want)
			}
		})
	}

	if err := store.Delete(ctx, recs[1].Ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, recs[1].Ref); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected deleted record to be gone, got %v", err)
	}
}

func TestIndexFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	folder := filepath.Join(testsupport.BaseDir(cfg), "show", "shots", "010", "comp")
	testsupport.WriteSequence(t, filepath.Join(folder, "abc_010_comp_v003_t02_jd.####.exr"), 1001, 1002, 1004)
	testsupport.WriteFile(t, filepath.Join(folder, "abc_010_comp_v003.nk"), 10)

	n, err := store.IndexFolder(ctx, folder)
	if err != nil {
		t.Fatalf("IndexFolder: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 entities, got %d", n)
	}

	seq, err := store.Get(ctx, filepath.Join(folder, "abc_010_comp_v003_t02_jd.#.exr"))
	if err != nil {
		t.Fatalf("Get sequence: %v", err)
	}
	if seq.Kind != "sequence" || seq.Shot != "010" || seq.Version != 3 || seq.Take != 2 || seq.User != "jd" {
		t.Fatalf("unexpected sequence record %+v", seq)
	}
	if !slices.Equal(seq.MissingFrames, []int{1003}) || seq.AvailableCount != 3 || seq.SizeBytes <= 0 || seq.Owner == "" {
		t.Fatalf("unexpected sequence info %+v", seq)
	}

	file, err := store.Get(ctx, filepath.Join(folder, "abc_010_comp_v003.nk"))
	if err != nil {
		t.Fatalf("Get file: %v", err)
	}
	if file.Kind != "file" || file.HasTake || file.SizeBytes != 10 || file.Label != "abc_010_comp_v003" {
		t.Fatalf("unexpected file record %+v", file)
	}
}

func TestWriteLockTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open(path, catalog.WithLockTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	holder := flock.New(path + ".lock")
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: %v %v", ok, err)
	}
	t.Cleanup(func() { _ = holder.Unlock() })

	err = store.Upsert(context.Background(), catalog.Record{Ref: "/a", Kind: "file", Basename: "a"})
	if !errors.Is(err, catalog.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(context.Background(), catalog.Record{Ref: "/a", Kind: "file", Basename: "a"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	if err := bumpSchemaVersion(path); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.Open(path); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func bumpSchemaVersion(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("UPDATE schema_version SET version = version + 1")
	if err != nil {
		return fmt.Errorf("bump schema version: %w", err)
	}
	return nil
}
