package vfs

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
)

// ExtractTarGz seeds fsys with the directories and regular files of a
// gzipped tar archive. Links and devices are skipped since the storage
// model only knows files and directories.
func ExtractTarGz(fsys afero.Fs, r io.Reader) error {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gr.Close()

	return ExtractTar(fsys, tar.NewReader(gr))
}

// ExtractTar copies the entries of t into fsys.
func ExtractTar(fsys afero.Fs, t *tar.Reader) error {
	for {
		hdr, err := t.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if err := extractEntry(fsys, t, hdr); err != nil {
			return fmt.Errorf("extracting %q: %w", hdr.Name, err)
		}
	}
}

func extractEntry(fsys afero.Fs, t *tar.Reader, hdr *tar.Header) error {
	name := path.Clean("/" + hdr.Name)
	if name == "/" {
		return nil
	}

	// Make parents
	if err := fsys.MkdirAll(path.Dir(name), 0755); err != nil {
		return err
	}

	mode := hdr.FileInfo().Mode()
	switch {
	case mode.IsDir():
		err := fsys.Mkdir(name, mode.Perm()|0700)
		switch {
		case os.IsExist(err):
			// Do nothing
		case err != nil:
			return err
		}
	case mode.IsRegular():
		fd, err := fsys.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode.Perm()|0600)
		if err != nil {
			return err
		}
		// Don't defer the close because it'll update the modification time.
		if _, err := io.CopyN(fd, t, hdr.Size); err != nil {
			fd.Close()
			return err
		}
		fd.Close()
	default:
		return nil
	}

	modTime := hdr.FileInfo().ModTime()
	return fsys.Chtimes(name, modTime, modTime)
}
