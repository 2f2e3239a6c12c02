package commands

import (
	"testing"

	"github.com/josephlewis42/vterm/core/vfs/vfstest"
	"github.com/stretchr/testify/assert"
)

func sampleTree(f *vfstest.Fixture) {
	f.File("/docs/a.txt", "a").
		File("/docs/sub/b.txt", "b").
		File("/z.txt", "z").
		Dir("/empty")
}

func TestTree(t *testing.T) {
	cases := goldenTestSuite{
		"empty":  {Line: "tree"},
		"nested": {Line: "tree", Setup: sampleTree},
	}

	cases.Run(t)
}

func TestTree_unreadable(t *testing.T) {
	term := newTestTerminal(t)
	sampleTree(term.fixture)
	term.env.FS = vfstest.FailListing(term.fixture.FS, "/docs")

	assert.Equal(t, []string{
		"/",
		"├── docs/ [unreadable]",
		"├── empty/",
		"└── z.txt",
		"",
		"2 directories, 1 file",
	}, term.mustRun("tree"))

	term.env.FS = vfstest.FailListing(term.fixture.FS, "/")
	res := term.run("tree")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"tree: /: storage unreachable"}, res.Output)
}

func TestTree_subdirectory(t *testing.T) {
	term := newTestTerminal(t)
	sampleTree(term.fixture)
	term.mustRun("cd docs")

	assert.Equal(t, []string{
		"/docs",
		"├── sub/",
		"│   └── b.txt",
		"└── a.txt",
		"",
		"1 directory, 2 files",
	}, term.mustRun("tree"))
}
