package commands

import (
	"testing"

	"github.com/josephlewis42/vterm/core/vfs/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLs(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.
		Dir("/zeta", "/alpha").
		File("/b.txt", "b").
		File("/a.txt", "a").
		File("/Makefile", "all:")

	assert.Equal(t, []string{"alpha/", "zeta/", "Makefile", "a.txt", "b.txt"}, term.mustRun("ls"))
	assert.Equal(t, term.mustRun("ls"), term.mustRun("dir"))
}

func TestLs_empty(t *testing.T) {
	term := newTestTerminal(t)
	assert.Equal(t, []string{"(empty directory)"}, term.mustRun("ls"))
}

func TestLs_long(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.Dir("/docs").File("/notes.txt", "hello")

	out := term.mustRun("ls -l")
	require.Len(t, out, 3)
	assert.Equal(t, "total 5", out[0])
	assert.Regexp(t, `^d\s+0\s+Jan  2 03:04\s+docs/$`, out[1])
	assert.Regexp(t, `^-\s+5\s+Jan  2 03:04\s+notes.txt$`, out[2])
}

func TestLs_storageFailure(t *testing.T) {
	term := newTestTerminal(t)
	term.env.FS = vfstest.FailListing(term.fixture.FS, "/")

	res := term.run("ls")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"ls: /: storage unreachable"}, res.Output)
}
