// Package vfs defines the storage collaborator the terminal talks to and
// provides an implementation on top of afero.
package vfs

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

// Identity is the opaque caller credential forwarded on every call.
type Identity string

// String implements fmt.Stringer.
func (id Identity) String() string {
	return string(id)
}

// Kind distinguishes files from directories.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is a named file or directory as reported by the storage service.
type Entry struct {
	Name       string
	Path       string
	Kind       Kind
	Size       int64
	ModifiedAt time.Time
	CreatedAt  time.Time
	// Extension is the part of the name after the last dot, if any.
	Extension string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// FS is the remote storage service. Every method is keyed by absolute
// virtual path and may block on the network.
type FS interface {
	// ListEntries lists the direct children of dir.
	ListEntries(ctx context.Context, id Identity, dir string) ([]Entry, error)
	// ReadText reads the content of a text file.
	ReadText(ctx context.Context, id Identity, path string) (string, error)
	// WriteNewFile creates parent/name with content, it never overwrites.
	WriteNewFile(ctx context.Context, id Identity, parent, name, content string) error
	// CreateDirectory creates parent/name.
	CreateDirectory(ctx context.Context, id Identity, parent, name string) error
	// DeleteEntry removes a file, or a directory and everything below it.
	DeleteEntry(ctx context.Context, id Identity, path string) error
	// RenameEntry renames the entry in place, keeping its parent.
	RenameEntry(ctx context.Context, id Identity, path, newName string) error
}

var (
	ErrPathNotFound   = errors.New("path not found")
	ErrNotFound       = errors.New("no such file or directory")
	ErrNotATextFile   = errors.New("not a text file")
	ErrAlreadyExists  = errors.New("already exists")
	ErrParentNotFound = errors.New("parent directory not found")
	ErrNameCollision  = errors.New("name already in use")
	ErrInvalidName    = errors.New("invalid name")
)

// Operation names used in errors and storage events.
const (
	OpListEntries     = "list_entries"
	OpReadText        = "read_text"
	OpWriteNewFile    = "write_new_file"
	OpCreateDirectory = "create_directory"
	OpDeleteEntry     = "delete_entry"
	OpRenameEntry     = "rename_entry"
)

func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// Describe turns a storage error into a short human readable message.
func Describe(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Path + ": " + pe.Err.Error()
	}
	return err.Error()
}
