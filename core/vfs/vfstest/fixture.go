// Package vfstest holds in-memory storage fixtures for tests.
package vfstest

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"testing"
	"time"

	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/spf13/afero"
)

// Identity is the caller every fixture is seeded for.
const Identity vfs.Identity = "sam"

// Now is Go's reference timestamp with a different value in each position.
func Now() time.Time {
	return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
}

// Fixture is an in-memory storage service that tests seed and inspect
// through its afero base, bypassing the storage API under test.
type Fixture struct {
	t    testing.TB
	Base afero.Fs
	FS   *vfs.AferoFS
}

// New creates an empty fixture.
func New(t testing.TB, opts ...vfs.Option) *Fixture {
	base := afero.NewMemMapFs()
	return &Fixture{
		t:    t,
		Base: base,
		FS:   vfs.NewAferoFS(base, opts...),
	}
}

// Dir creates the directories and their parents.
func (f *Fixture) Dir(paths ...string) *Fixture {
	for _, p := range paths {
		if err := f.Base.MkdirAll(p, 0755); err != nil {
			f.t.Fatal(err)
		}
		f.touch(p)
	}
	return f
}

// File creates a file with the given content, making parents as needed.
func (f *Fixture) File(p, content string) *Fixture {
	if err := f.Base.MkdirAll(path.Dir(p), 0755); err != nil {
		f.t.Fatal(err)
	}
	if err := afero.WriteFile(f.Base, p, []byte(content), 0644); err != nil {
		f.t.Fatal(err)
	}
	f.touch(p)
	return f
}

func (f *Fixture) touch(p string) {
	if err := f.Base.Chtimes(p, Now(), Now()); err != nil {
		f.t.Fatal(err)
	}
}

// Exists reports whether p exists in the base filesystem.
func (f *Fixture) Exists(p string) bool {
	ok, err := afero.Exists(f.Base, p)
	if err != nil {
		f.t.Fatal(err)
	}
	return ok
}

// IsDir reports whether p is a directory in the base filesystem.
func (f *Fixture) IsDir(p string) bool {
	ok, _ := afero.IsDir(f.Base, p)
	return ok
}

// Read returns the content of p, failing the test if it can't be read.
func (f *Fixture) Read(p string) string {
	content, err := afero.ReadFile(f.Base, p)
	if err != nil {
		f.t.Fatal(err)
	}
	return string(content)
}

// ErrUnreachable is returned by FailingLister for its broken directories.
var ErrUnreachable = errors.New("storage unreachable")

// FailingLister is an FS whose ListEntries fails for selected directories.
type FailingLister struct {
	vfs.FS
	Broken map[string]bool
}

// FailListing wraps inner so listing any of dirs fails.
func FailListing(inner vfs.FS, dirs ...string) *FailingLister {
	broken := make(map[string]bool)
	for _, d := range dirs {
		broken[d] = true
	}
	return &FailingLister{FS: inner, Broken: broken}
}

// ListEntries implements vfs.FS.
func (f *FailingLister) ListEntries(ctx context.Context, id vfs.Identity, dir string) ([]vfs.Entry, error) {
	if f.Broken[dir] {
		return nil, &fs.PathError{Op: vfs.OpListEntries, Path: dir, Err: ErrUnreachable}
	}
	return f.FS.ListEntries(ctx, id, dir)
}
