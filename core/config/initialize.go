package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// Initialize writes a default configuration to dir, leaving any files that
// already exist alone, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	configFs := afero.NewBasePathFs(afero.NewOsFs(), dir)

	if err := initializeFs(configFs, logger); err != nil {
		return nil, err
	}

	return LoadFs(configFs)
}

func initializeFs(configFs afero.Fs, logger *log.Logger) error {
	files := []struct {
		name     string
		contents func() ([]byte, error)
	}{
		{ConfigurationName, func() ([]byte, error) { return defaultConfigData, nil }},
		{RootFSName, func() ([]byte, error) { return rootFsData, nil }},
		{PrivateKeyName, generatePrivateKey},
	}

	for _, file := range files {
		_, err := configFs.Stat(file.name)
		switch {
		case err == nil:
			logger.Printf("- %s exists, skipping\n", file.name)
			continue
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}

		contents, err := file.contents()
		if err != nil {
			return err
		}

		logger.Printf("- Writing %s\n", file.name)
		if err := afero.WriteFile(configFs, file.name, contents, 0600); err != nil {
			return err
		}
	}

	return nil
}

// generatePrivateKey creates a PEM encoded ed25519 host key.
func generatePrivateKey() ([]byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	block, err := ssh.MarshalPrivateKey(key, "vterm host key")
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}
