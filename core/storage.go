package core

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/josephlewis42/vterm/commands"
	"github.com/josephlewis42/vterm/core/config"
	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/session"
	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/spf13/afero"
)

// NewStorageFromConfig builds the in-memory filesystem shared by every
// session, seeded from the configuration's root_fs.tar.gz if there is one.
func NewStorageFromConfig(cfg *config.Configuration) (*vfs.AferoFS, error) {
	base := afero.NewMemMapFs()

	fd, err := cfg.OpenFilesystemTarGz()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Start empty.
	case err != nil:
		return nil, err
	default:
		defer fd.Close()
		if err := vfs.ExtractTarGz(base, fd); err != nil {
			return nil, fmt.Errorf("seeding filesystem: %w", err)
		}
	}

	return vfs.NewAferoFS(base, storageOptions(cfg.Storage)...), nil
}

func storageOptions(s config.Storage) []vfs.Option {
	var opts []vfs.Option
	if s.PerUserRoots != "" {
		opts = append(opts, vfs.WithIdentityRoots(s.PerUserRoots))
	}
	if s.ReadBytesPerSecond > 0 {
		opts = append(opts, vfs.WithReadRate(s.ReadBytesPerSecond))
	}
	return opts
}

// SessionConfig holds what differs between sessions sharing a server.
type SessionConfig struct {
	Identity vfs.Identity
	Recorder logger.Recorder
	OnClear  func()
	Now      func() time.Time
}

// NewSession creates a session over storage configured by cfg. Storage
// calls are logged to the session's recorder.
func NewSession(cfg *config.Configuration, storage vfs.FS, sc SessionConfig) *session.Session {
	recorder := sc.Recorder
	if recorder == nil {
		recorder = logger.Discard
	}

	return session.New(session.Options{
		FS:       vfs.NewLoggingFS(storage, recorder),
		Identity: sc.Identity,
		Commands: commands.Options{
			DefaultExtension: cfg.Shell.DefaultExtension,
			ScriptExtension:  cfg.Shell.ScriptExtension,
			MaxScriptDepth:   cfg.Shell.MaxScriptDepth,
		},
		Recorder:     recorder,
		Now:          sc.Now,
		HistoryLimit: cfg.Shell.HistoryLimit,
		OnClear:      sc.OnClear,
	})
}
