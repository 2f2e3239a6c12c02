package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	execRoot, execScript, execUser = "", "", "guest"
	cfgPath, playMaxSleep = ".", 2*time.Second

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExec(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, "exec", "--root", dir, "mkdir notes", "cd notes", "touch plan", "ls", "pwd")
	require.NoError(t, err)
	assert.Equal(t, "Created directory notes\nChanged directory to /notes\nCreated file plan.txt\nplan.txt\n/notes\n", out)

	info, err := os.Stat(filepath.Join(dir, "notes", "plan.txt"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestExec_failure(t *testing.T) {
	out, err := runRoot(t, "exec", "whoami", "frobnicate")
	assert.Error(t, err)
	assert.Contains(t, out, "guest\n")
	assert.Contains(t, out, "Command 'frobnicate' not recognized")
}

func TestExec_script(t *testing.T) {
	script := filepath.Join(t.TempDir(), "greet.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo Hello $1 from $PWD\n"), 0600))

	out, err := runRoot(t, "exec", "--user", "sam", "--script", script, "Sam")
	require.NoError(t, err)
	assert.Equal(t, "Executing greet.sh Sam\n[1] echo Hello Sam from /\nHello Sam from /\nScript greet.sh completed: 1 line, 0 failed\n", out)
}
