package config

import (
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("LoadConfigFile", func(t *testing.T) {
		_, err := Load(filepath.Join(tempDir, ConfigurationName))
		assert.Nil(t, err)
	})

	t.Run("OpenAppLog", func(t *testing.T) {
		fd, err := cfg.OpenAppLog()
		require.Nil(t, err)
		_, err = io.WriteString(fd, "line\n")
		assert.Nil(t, err)
		fd.Close()

		fd, err = cfg.ReadAppLog()
		require.Nil(t, err)
		defer fd.Close()
		contents, err := io.ReadAll(fd)
		assert.Nil(t, err)
		assert.Equal(t, "line\n", string(contents))
	})

	t.Run("OpenFilesystemTarGz", func(t *testing.T) {
		fd, err := cfg.OpenFilesystemTarGz()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("PrivateKeyPem", func(t *testing.T) {
		keyPem, err := cfg.PrivateKeyPem()
		require.Nil(t, err)

		signer, err := ssh.ParsePrivateKey(keyPem)
		require.Nil(t, err)
		assert.Equal(t, ssh.KeyAlgoED25519, signer.PublicKey().Type())
	})
}

func TestInitialize_keepsExisting(t *testing.T) {
	tempDir := t.TempDir()
	quiet := log.New(ioutil.Discard, "", 0)

	first, err := Initialize(tempDir, quiet)
	require.Nil(t, err)
	key, err := first.PrivateKeyPem()
	require.Nil(t, err)

	configPath := filepath.Join(tempDir, ConfigurationName)
	contents, err := os.ReadFile(configPath)
	require.Nil(t, err)
	edited := append([]byte("# edited\n"), contents...)
	require.Nil(t, os.WriteFile(configPath, edited, 0600))

	second, err := Initialize(tempDir, quiet)
	require.Nil(t, err)
	again, err := second.PrivateKeyPem()
	require.Nil(t, err)
	assert.Equal(t, key, again, "the host key is never replaced")

	after, err := os.ReadFile(configPath)
	require.Nil(t, err)
	assert.Equal(t, edited, after)
}
