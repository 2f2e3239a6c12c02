package vfs

import (
	"context"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/vpath"
)

// LoggingFS records a storage event for every call to the wrapped FS.
type LoggingFS struct {
	Inner    FS
	Recorder logger.Recorder
}

var _ FS = (*LoggingFS)(nil)

// NewLoggingFS wraps inner so each call is recorded.
func NewLoggingFS(inner FS, recorder logger.Recorder) *LoggingFS {
	return &LoggingFS{Inner: inner, Recorder: recorder}
}

func (l *LoggingFS) record(op, p string, id Identity, err error) {
	event := &logger.StorageOp{
		Op:       op,
		Path:     p,
		Identity: id.String(),
	}
	if err != nil {
		event.Error = Describe(err)
	}
	// Losing an audit record must not fail the storage call.
	_ = l.Recorder.Record(event)
}

func (l *LoggingFS) ListEntries(ctx context.Context, id Identity, dir string) ([]Entry, error) {
	entries, err := l.Inner.ListEntries(ctx, id, dir)
	l.record(OpListEntries, dir, id, err)
	return entries, err
}

func (l *LoggingFS) ReadText(ctx context.Context, id Identity, p string) (string, error) {
	text, err := l.Inner.ReadText(ctx, id, p)
	l.record(OpReadText, p, id, err)
	return text, err
}

func (l *LoggingFS) WriteNewFile(ctx context.Context, id Identity, parent, name, content string) error {
	err := l.Inner.WriteNewFile(ctx, id, parent, name, content)
	l.record(OpWriteNewFile, vpath.Join(parent, name), id, err)
	return err
}

func (l *LoggingFS) CreateDirectory(ctx context.Context, id Identity, parent, name string) error {
	err := l.Inner.CreateDirectory(ctx, id, parent, name)
	l.record(OpCreateDirectory, vpath.Join(parent, name), id, err)
	return err
}

func (l *LoggingFS) DeleteEntry(ctx context.Context, id Identity, p string) error {
	err := l.Inner.DeleteEntry(ctx, id, p)
	l.record(OpDeleteEntry, p, id, err)
	return err
}

func (l *LoggingFS) RenameEntry(ctx context.Context, id Identity, p, newName string) error {
	err := l.Inner.RenameEntry(ctx, id, p, newName)
	l.record(OpRenameEntry, p, id, err)
	return err
}
