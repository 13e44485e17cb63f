package entity

import (
	"context"
	"os"
	"path/filepath"

	"shotpath/internal/pathutil"
	"shotpath/internal/site"
)

// File is a single file on disk.
type File struct {
	opts options
	path string
}

// NewFile returns a File for path. The path does not need to exist.
func NewFile(path string, opts ...Option) *File {
	return newFile(path, newOptions(opts))
}

func newFile(path string, o options) *File {
	return &File{opts: o, path: path}
}

func (*File) sealed() {}

func (*File) Kind() Kind { return KindFile }

func (f *File) Path() string { return f.path }

// Name returns the final element of the path.
func (f *File) Name() string { return filepath.Base(f.path) }

// Basename returns the name without its extension; ".bgeo.sc" counts as one
// extension.
func (f *File) Basename() string {
	return pathutil.RemoveExtension(filepath.Base(f.path))
}

func (f *File) Extension() string {
	return pathutil.ExtractExtension(f.path)
}

func (f *File) Paths() []string { return []string{f.path} }

func (f *File) SyncPath() string { return f.path }

func (f *File) ReferencePath() string { return filepath.Clean(f.path) }

func (f *File) ReferenceName() string { return filepath.Base(f.ReferencePath()) }

func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *File) ExistsLocally() bool { return f.Exists() }

func (f *File) ExistsOnSite(name string) (bool, error) {
	p, err := site.SitePath(f.ReferencePath(), name)
	if err != nil {
		return false, err
	}
	return newFile(p, f.opts).Exists(), nil
}

func (f *File) ExistsOnRemoteSite() (bool, error) {
	return f.opts.existsOnRemoteSite(f)
}

func (f *File) Owner() (string, error) {
	return pathutil.Owner(f.path)
}

func (f *File) SizeInMegabytes() float64 {
	return pathutil.SizeInMegabytes(f.path)
}

// Copy copies the file to dest. Failures are logged and reported as false.
func (f *File) Copy(dest string) bool {
	return f.opts.copy(f.path, dest)
}

// CopyBasepath copies the file to destBase plus the file's extension.
func (f *File) CopyBasepath(destBase string) bool {
	return f.opts.copy(f.path, destBase+f.Extension())
}

func (f *File) Info() Info {
	return Info{
		ReferencePath: f.ReferencePath(),
		Online:        f.ExistsLocally(),
		Label:         f.Basename(),
	}
}

func (f *File) SyncToRemoteSite(ctx context.Context) error {
	return f.opts.put(ctx, f.SyncPath())
}

func (f *File) SyncLocally(ctx context.Context) error {
	return f.opts.get(ctx, f.SyncPath())
}

func (f *File) String() string { return "File(" + f.path + ")" }
