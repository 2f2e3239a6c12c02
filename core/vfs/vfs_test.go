package vfs_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/josephlewis42/vterm/core/vfs/vfstest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const id = vfstest.Identity

func TestAferoFS_ListEntries(t *testing.T) {
	ctx := context.Background()
	fixture := vfstest.New(t).
		Dir("/docs/archive").
		File("/docs/b.txt", "bee").
		File("/docs/a.md", "# a").
		File("/docs/Makefile", "all:")

	entries, err := fixture.FS.ListEntries(ctx, id, "/docs")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Makefile", "a.md", "archive", "b.txt"}, names)

	byName := make(map[string]vfs.Entry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.True(t, byName["archive"].IsDir())
	assert.Equal(t, "/docs/archive", byName["archive"].Path)
	assert.Equal(t, "", byName["archive"].Extension)
	assert.Equal(t, int64(3), byName["b.txt"].Size)
	assert.Equal(t, "txt", byName["b.txt"].Extension)
	assert.Equal(t, "", byName["Makefile"].Extension)
	assert.Equal(t, vfstest.Now(), byName["a.md"].ModifiedAt.UTC())

	t.Run("missing", func(t *testing.T) {
		_, err := fixture.FS.ListEntries(ctx, id, "/nope")
		assert.ErrorIs(t, err, vfs.ErrPathNotFound)
		assert.Equal(t, "/nope: path not found", vfs.Describe(err))
	})

	t.Run("file", func(t *testing.T) {
		_, err := fixture.FS.ListEntries(ctx, id, "/docs/b.txt")
		assert.ErrorIs(t, err, vfs.ErrPathNotFound)
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := fixture.FS.ListEntries(canceled, id, "/docs")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAferoFS_ReadText(t *testing.T) {
	ctx := context.Background()
	fixture := vfstest.New(t).
		File("/notes.txt", "one\ntwo\n").
		File("/image.bin", "\x89PNG\x00\x00").
		Dir("/dir")

	cases := map[string]struct {
		path    string
		want    string
		wantErr error
	}{
		"text":      {path: "/notes.txt", want: "one\ntwo\n"},
		"binary":    {path: "/image.bin", wantErr: vfs.ErrNotATextFile},
		"directory": {path: "/dir", wantErr: vfs.ErrNotATextFile},
		"missing":   {path: "/missing.txt", wantErr: vfs.ErrNotFound},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := fixture.FS.ReadText(ctx, id, tc.path)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAferoFS_ReadRate(t *testing.T) {
	fixture := vfstest.New(t, vfs.WithReadRate(1<<20)).File("/a.txt", "throttled")

	got, err := fixture.FS.ReadText(context.Background(), id, "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "throttled", got)
}

func TestAferoFS_Create(t *testing.T) {
	ctx := context.Background()
	fixture := vfstest.New(t).Dir("/docs").File("/docs/taken.txt", "x")

	require.NoError(t, fixture.FS.WriteNewFile(ctx, id, "/docs", "new.txt", "hello"))
	assert.Equal(t, "hello", fixture.Read("/docs/new.txt"))

	require.NoError(t, fixture.FS.CreateDirectory(ctx, id, "/", "music"))
	assert.True(t, fixture.IsDir("/music"))

	cases := map[string]struct {
		create  func() error
		wantErr error
	}{
		"file exists": {
			create:  func() error { return fixture.FS.WriteNewFile(ctx, id, "/docs", "taken.txt", "y") },
			wantErr: vfs.ErrAlreadyExists,
		},
		"dir exists": {
			create:  func() error { return fixture.FS.CreateDirectory(ctx, id, "/", "docs") },
			wantErr: vfs.ErrAlreadyExists,
		},
		"file without parent": {
			create:  func() error { return fixture.FS.WriteNewFile(ctx, id, "/nope", "a.txt", "") },
			wantErr: vfs.ErrParentNotFound,
		},
		"dir without parent": {
			create:  func() error { return fixture.FS.CreateDirectory(ctx, id, "/nope", "a") },
			wantErr: vfs.ErrParentNotFound,
		},
		"parent is a file": {
			create:  func() error { return fixture.FS.CreateDirectory(ctx, id, "/docs/taken.txt", "a") },
			wantErr: vfs.ErrParentNotFound,
		},
		"bad name": {
			create:  func() error { return fixture.FS.WriteNewFile(ctx, id, "/", "a/b", "") },
			wantErr: vfs.ErrInvalidName,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tc.create(), tc.wantErr)
		})
	}

	assert.Equal(t, "x", fixture.Read("/docs/taken.txt"), "existing files are never overwritten")
}

func TestAferoFS_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	fixture := vfstest.New(t).
		File("/a.txt", "a").
		File("/tree/sub/leaf.txt", "leaf")

	require.NoError(t, fixture.FS.DeleteEntry(ctx, id, "/a.txt"))
	assert.False(t, fixture.Exists("/a.txt"))

	require.NoError(t, fixture.FS.DeleteEntry(ctx, id, "/tree"))
	assert.False(t, fixture.Exists("/tree/sub/leaf.txt"))
	assert.False(t, fixture.Exists("/tree"))

	assert.ErrorIs(t, fixture.FS.DeleteEntry(ctx, id, "/a.txt"), vfs.ErrNotFound)
	assert.ErrorIs(t, fixture.FS.DeleteEntry(ctx, id, "/"), vfs.ErrInvalidName)
}

func TestAferoFS_RenameEntry(t *testing.T) {
	ctx := context.Background()
	fixture := vfstest.New(t).
		File("/a.txt", "a").
		File("/b.txt", "b").
		File("/project/src/main.txt", "main")

	require.NoError(t, fixture.FS.RenameEntry(ctx, id, "/a.txt", "c.txt"))
	assert.False(t, fixture.Exists("/a.txt"))
	assert.Equal(t, "a", fixture.Read("/c.txt"))

	require.NoError(t, fixture.FS.RenameEntry(ctx, id, "/project", "app"))
	assert.False(t, fixture.Exists("/project"))
	assert.Equal(t, "main", fixture.Read("/app/src/main.txt"))

	assert.ErrorIs(t, fixture.FS.RenameEntry(ctx, id, "/b.txt", "c.txt"), vfs.ErrNameCollision)
	assert.ErrorIs(t, fixture.FS.RenameEntry(ctx, id, "/missing", "x"), vfs.ErrNotFound)
	assert.Equal(t, "b", fixture.Read("/b.txt"))
}

func TestAferoFS_IdentityRoots(t *testing.T) {
	ctx := context.Background()
	fixture := vfstest.New(t, vfs.WithIdentityRoots("/home"))

	require.NoError(t, fixture.FS.WriteNewFile(ctx, "sam", "/", "mine.txt", "sam's"))
	require.NoError(t, fixture.FS.WriteNewFile(ctx, "alex", "/", "mine.txt", "alex's"))

	assert.Equal(t, "sam's", fixture.Read("/home/sam/mine.txt"))
	assert.Equal(t, "alex's", fixture.Read("/home/alex/mine.txt"))

	entries, err := fixture.FS.ListEntries(ctx, "sam", "/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/mine.txt", entries[0].Path)

	_, err = fixture.FS.ListEntries(ctx, "../etc", "/")
	assert.ErrorIs(t, err, vfs.ErrInvalidName)
}

func TestLoggingFS(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	recorder := logger.NewJsonLinesLogRecorder(buf).Sessionless()
	fixture := vfstest.New(t).Dir("/docs")
	fsys := vfs.NewLoggingFS(fixture.FS, recorder)

	require.NoError(t, fsys.WriteNewFile(ctx, id, "/docs", "a.txt", "a"))
	_, err := fsys.ReadText(ctx, id, "/docs/missing.txt")
	require.Error(t, err)

	var entries []*logger.LogEntry
	require.NoError(t, logger.ReadJSONLinesLog(buf, func(le *logger.LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 2)

	assert.Equal(t, logger.TypeStorageOp, entries[0].Type())
	assert.Equal(t, vfs.OpWriteNewFile, entries[0].String("op"))
	assert.Equal(t, "/docs/a.txt", entries[0].String("path"))
	assert.Equal(t, "sam", entries[0].String("identity"))
	assert.Empty(t, entries[0].String("error"))

	assert.Equal(t, vfs.OpReadText, entries[1].String("op"))
	assert.Equal(t, "/docs/missing.txt: no such file or directory", entries[1].String("error"))
}

func TestExtractTarGz(t *testing.T) {
	modTime := time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC)

	buf := &bytes.Buffer{}
	gw := gzip.NewWriter(buf)
	tw := tar.NewWriter(gw)
	writeTar := func(hdr *tar.Header, content string) {
		hdr.Size = int64(len(content))
		hdr.ModTime = modTime
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	writeTar(&tar.Header{Name: "./", Typeflag: tar.TypeDir, Mode: 0755}, "")
	writeTar(&tar.Header{Name: "./docs/", Typeflag: tar.TypeDir, Mode: 0755}, "")
	writeTar(&tar.Header{Name: "./docs/readme.txt", Typeflag: tar.TypeReg, Mode: 0644}, "hello")
	writeTar(&tar.Header{Name: "./scripts/hello.sh", Typeflag: tar.TypeReg, Mode: 0644}, "echo hi")
	writeTar(&tar.Header{Name: "./link", Typeflag: tar.TypeSymlink, Linkname: "docs"}, "")
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())

	base := afero.NewMemMapFs()
	require.NoError(t, vfs.ExtractTarGz(base, buf))

	content, err := afero.ReadFile(base, "/docs/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	info, err := base.Stat("/scripts/hello.sh")
	require.NoError(t, err)
	assert.Equal(t, modTime, info.ModTime().UTC())

	exists, err := afero.Exists(base, "/link")
	require.NoError(t, err)
	assert.False(t, exists)

	t.Run("not gzip", func(t *testing.T) {
		err := vfs.ExtractTarGz(afero.NewMemMapFs(), bytes.NewBufferString("this is plainly not a gzip stream"))
		assert.True(t, errors.Is(err, gzip.ErrHeader))
	})
}
