package vfs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/josephlewis42/vterm/core/vpath"
	"github.com/juju/ratelimit"
	"github.com/spf13/afero"
)

// AferoFS implements FS on top of an afero filesystem.
type AferoFS struct {
	base afero.Fs

	// identityRoots, if set, gives each identity its own subtree.
	identityRoots string
	readBucket    *ratelimit.Bucket

	mu    sync.Mutex
	roots map[Identity]afero.Fs
}

var _ FS = (*AferoFS)(nil)

// Option configures an AferoFS.
type Option func(*AferoFS)

// WithIdentityRoots gives every identity a private tree rooted at
// prefix/<identity> in the base filesystem.
func WithIdentityRoots(prefix string) Option {
	return func(a *AferoFS) {
		a.identityRoots = vpath.Clean(prefix)
	}
}

// WithReadRate caps ReadText throughput, emulating a bandwidth limited
// remote store. Zero or negative rates disable the cap.
func WithReadRate(bytesPerSecond int64) Option {
	return func(a *AferoFS) {
		if bytesPerSecond <= 0 {
			a.readBucket = nil
			return
		}
		a.readBucket = ratelimit.NewBucketWithRate(float64(bytesPerSecond), bytesPerSecond)
	}
}

// NewAferoFS serves the storage API out of base.
func NewAferoFS(base afero.Fs, opts ...Option) *AferoFS {
	a := &AferoFS{
		base:  base,
		roots: make(map[Identity]afero.Fs),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AferoFS) fsFor(op, p string, id Identity) (afero.Fs, error) {
	if a.identityRoots == "" {
		return a.base, nil
	}

	if err := checkName(string(id)); err != nil {
		return nil, pathError(op, p, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if fsys, ok := a.roots[id]; ok {
		return fsys, nil
	}

	root := vpath.Join(a.identityRoots, string(id))
	if err := a.base.MkdirAll(root, 0755); err != nil {
		return nil, pathError(op, p, err)
	}
	fsys := afero.NewBasePathFs(a.base, root)
	a.roots[id] = fsys
	return fsys, nil
}

// ListEntries implements FS.ListEntries.
func (a *AferoFS) ListEntries(ctx context.Context, id Identity, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir = vpath.Clean(dir)
	fsys, err := a.fsFor(OpListEntries, dir, id)
	if err != nil {
		return nil, err
	}

	if !isDir(fsys, dir) {
		return nil, pathError(OpListEntries, dir, ErrPathNotFound)
	}

	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, pathError(OpListEntries, dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entryFromInfo(dir, info))
	}
	return entries, nil
}

// ReadText implements FS.ReadText.
func (a *AferoFS) ReadText(ctx context.Context, id Identity, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p = vpath.Clean(p)
	fsys, err := a.fsFor(OpReadText, p, id)
	if err != nil {
		return "", err
	}

	info, err := fsys.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", pathError(OpReadText, p, ErrNotFound)
	case err != nil:
		return "", pathError(OpReadText, p, err)
	case info.IsDir():
		return "", pathError(OpReadText, p, ErrNotATextFile)
	}

	fd, err := fsys.Open(p)
	if err != nil {
		return "", pathError(OpReadText, p, err)
	}
	defer fd.Close()

	var r io.Reader = fd
	if a.readBucket != nil {
		r = ratelimit.Reader(fd, a.readBucket)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return "", pathError(OpReadText, p, err)
	}
	if !IsText(content) {
		return "", pathError(OpReadText, p, ErrNotATextFile)
	}
	return string(content), nil
}

// WriteNewFile implements FS.WriteNewFile.
func (a *AferoFS) WriteNewFile(ctx context.Context, id Identity, parent, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := vpath.Join(parent, name)
	fsys, err := a.prepareCreate(OpWriteNewFile, id, parent, name)
	if err != nil {
		return err
	}

	fd, err := fsys.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	switch {
	case errors.Is(err, fs.ErrExist):
		return pathError(OpWriteNewFile, target, ErrAlreadyExists)
	case err != nil:
		return pathError(OpWriteNewFile, target, err)
	}

	if _, err := io.WriteString(fd, content); err != nil {
		fd.Close()
		return pathError(OpWriteNewFile, target, err)
	}
	if err := fd.Close(); err != nil {
		return pathError(OpWriteNewFile, target, err)
	}
	return nil
}

// CreateDirectory implements FS.CreateDirectory.
func (a *AferoFS) CreateDirectory(ctx context.Context, id Identity, parent, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := vpath.Join(parent, name)
	fsys, err := a.prepareCreate(OpCreateDirectory, id, parent, name)
	if err != nil {
		return err
	}

	err = fsys.Mkdir(target, 0755)
	switch {
	case errors.Is(err, fs.ErrExist):
		return pathError(OpCreateDirectory, target, ErrAlreadyExists)
	case err != nil:
		return pathError(OpCreateDirectory, target, err)
	}
	return nil
}

// prepareCreate validates a new child name and that its parent exists.
func (a *AferoFS) prepareCreate(op string, id Identity, parent, name string) (afero.Fs, error) {
	target := vpath.Join(parent, name)
	if err := checkName(name); err != nil {
		return nil, pathError(op, target, err)
	}

	fsys, err := a.fsFor(op, target, id)
	if err != nil {
		return nil, err
	}

	if !isDir(fsys, vpath.Clean(parent)) {
		return nil, pathError(op, target, ErrParentNotFound)
	}
	if exists, _ := afero.Exists(fsys, target); exists {
		return nil, pathError(op, target, ErrAlreadyExists)
	}
	return fsys, nil
}

// DeleteEntry implements FS.DeleteEntry.
func (a *AferoFS) DeleteEntry(ctx context.Context, id Identity, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = vpath.Clean(p)
	if p == vpath.Root {
		return pathError(OpDeleteEntry, p, ErrInvalidName)
	}
	fsys, err := a.fsFor(OpDeleteEntry, p, id)
	if err != nil {
		return err
	}

	info, err := fsys.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return pathError(OpDeleteEntry, p, ErrNotFound)
	case err != nil:
		return pathError(OpDeleteEntry, p, err)
	case info.IsDir():
		err = fsys.RemoveAll(p)
	default:
		err = fsys.Remove(p)
	}

	if err != nil {
		return pathError(OpDeleteEntry, p, err)
	}
	return nil
}

// RenameEntry implements FS.RenameEntry.
func (a *AferoFS) RenameEntry(ctx context.Context, id Identity, p, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p = vpath.Clean(p)
	if err := checkName(newName); err != nil || p == vpath.Root {
		return pathError(OpRenameEntry, p, ErrInvalidName)
	}
	fsys, err := a.fsFor(OpRenameEntry, p, id)
	if err != nil {
		return err
	}

	info, err := fsys.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return pathError(OpRenameEntry, p, ErrNotFound)
	case err != nil:
		return pathError(OpRenameEntry, p, err)
	}

	target := vpath.Join(vpath.Dir(p), newName)
	if target == p {
		return nil
	}
	if exists, _ := afero.Exists(fsys, target); exists {
		return pathError(OpRenameEntry, target, ErrNameCollision)
	}

	if info.IsDir() {
		err = moveTree(fsys, p, target)
	} else {
		err = fsys.Rename(p, target)
	}
	if err != nil {
		return pathError(OpRenameEntry, p, err)
	}
	return nil
}

// moveTree re-creates a directory tree under a new name and removes the
// original. Not every afero backend moves children on Rename.
func moveTree(fsys afero.Fs, from, to string) error {
	err := afero.Walk(fsys, from, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		dest := to + strings.TrimPrefix(p, from)
		if info.IsDir() {
			return fsys.MkdirAll(dest, info.Mode().Perm())
		}

		content, err := afero.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fsys, dest, content, info.Mode().Perm()); err != nil {
			return err
		}
		return fsys.Chtimes(dest, info.ModTime(), info.ModTime())
	})
	if err != nil {
		return err
	}
	return fsys.RemoveAll(from)
}

func isDir(fsys afero.Fs, p string) bool {
	info, err := fsys.Stat(p)
	return err == nil && info.IsDir()
}

func entryFromInfo(dir string, info fs.FileInfo) Entry {
	name := path.Base(info.Name())
	entry := Entry{
		Name:       name,
		Path:       vpath.Join(dir, name),
		Kind:       KindFile,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		// afero doesn't track birth times.
		CreatedAt: info.ModTime(),
	}

	if info.IsDir() {
		entry.Kind = KindDirectory
		entry.Size = 0
	} else {
		entry.Extension = vpath.Ext(name)
	}
	return entry
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidName
	}
	return nil
}

// IsText reports whether content looks like text: valid UTF-8 and no NUL.
func IsText(content []byte) bool {
	return utf8.Valid(content) && bytes.IndexByte(content, 0) < 0
}
