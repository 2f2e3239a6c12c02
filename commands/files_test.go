package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMkdir(t *testing.T) {
	term := newTestTerminal(t)

	assert.Equal(t, []string{"Created directory foo"}, term.mustRun("mkdir foo"))
	assert.True(t, term.fixture.IsDir("/foo"))
	assert.Contains(t, term.mustRun("ls"), "foo/")

	res := term.run("mkdir foo")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{`mkdir: cannot create directory "foo": already exists`}, res.Output)

	res = term.run("mkdir a b")
	assert.False(t, res.Succeeded)
}

func TestTouch(t *testing.T) {
	term := newTestTerminal(t)

	assert.Equal(t, []string{"Created file plan.txt"}, term.mustRun("touch plan"))
	assert.Equal(t, []string{"Created file notes.md"}, term.mustRun("touch notes.md"))
	assert.Equal(t, "", term.fixture.Read("/plan.txt"))

	res := term.run("touch plan")
	assert.False(t, res.Succeeded, "touch never overwrites")

	term.env.Options.DefaultExtension = "md"
	assert.Equal(t, []string{"Created file todo.md"}, term.mustRun("touch todo"))
}

func TestRm(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.File("/a.txt", "a").File("/docs/deep/b.txt", "b")

	assert.Equal(t, []string{"Removed file a.txt"}, term.mustRun("rm a.txt"))
	assert.False(t, term.fixture.Exists("/a.txt"))

	assert.Equal(t, []string{"Removed directory docs"}, term.mustRun("rm docs"))
	assert.False(t, term.fixture.Exists("/docs/deep/b.txt"))

	res := term.run("rm a.txt")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"rm: a.txt: no such file or directory"}, res.Output)
}

func TestMkdirRmRoundTrip(t *testing.T) {
	term := newTestTerminal(t)

	term.mustRun("mkdir foo")
	assert.Contains(t, term.mustRun("ls"), "foo/")

	term.mustRun("rm foo")
	assert.NotContains(t, term.mustRun("ls"), "foo/")
}

func TestCp(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.
		File("/a.txt", "alpha").
		File("/project/src/main.txt", "main").
		Dir("/backup")

	term.mustRun("cp a.txt b.txt")
	assert.Equal(t, "alpha", term.fixture.Read("/b.txt"))
	assert.Equal(t, "alpha", term.fixture.Read("/a.txt"))

	assert.Equal(t, []string{"Copied a.txt to /backup/a.txt"}, term.mustRun("cp a.txt backup"))
	assert.Equal(t, "alpha", term.fixture.Read("/backup/a.txt"))

	term.mustRun("cp project backup")
	assert.Equal(t, "main", term.fixture.Read("/backup/project/src/main.txt"))

	res := term.run("cp a.txt b.txt")
	assert.False(t, res.Succeeded, "destination exists")

	res = term.run("cp missing.txt c.txt")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"cp: missing.txt: no such file or directory"}, res.Output)

	res = term.run("cp backup backup")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"cp: cannot copy directory backup into itself"}, res.Output)
}

func TestCp_partialCopyRemoved(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.
		File("/project/a.txt", "alpha").
		File("/project/z.dat", "\x00\x01").
		Dir("/backup")

	res := term.run("cp project backup")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"cp: /project/z.dat: not a text file"}, res.Output)
	assert.False(t, term.fixture.Exists("/backup/project"), "partial copy removed")
	assert.Equal(t, "alpha", term.fixture.Read("/project/a.txt"))

	res = term.run("mv project moved")
	assert.False(t, res.Succeeded)
	assert.False(t, term.fixture.Exists("/moved"))
	assert.True(t, term.fixture.Exists("/project/z.dat"), "source kept when the copy fails")
}

func TestMv(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.
		File("/a.txt", "alpha").
		File("/taken.txt", "taken").
		File("/project/readme.txt", "readme").
		Dir("/archive")

	assert.Equal(t, []string{"Moved a.txt to /renamed.txt"}, term.mustRun("mv a.txt renamed.txt"))
	assert.False(t, term.fixture.Exists("/a.txt"))
	assert.Equal(t, "alpha", term.fixture.Read("/renamed.txt"))

	term.mustRun("mv project archive")
	assert.False(t, term.fixture.Exists("/project"))
	assert.Equal(t, "readme", term.fixture.Read("/archive/project/readme.txt"))

	res := term.run("mv renamed.txt taken.txt")
	assert.False(t, res.Succeeded)
	assert.True(t, term.fixture.Exists("/renamed.txt"), "source kept when the copy fails")
	assert.Equal(t, "taken", term.fixture.Read("/taken.txt"))
}

func TestRename(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.File("/a.txt", "a").File("/b.txt", "b")

	assert.Equal(t, []string{"Renamed a.txt to c.txt"}, term.mustRun("rename a.txt c.txt"))
	assert.Equal(t, "a", term.fixture.Read("/c.txt"))

	res := term.run("rename b.txt c.txt")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"rename: /c.txt: name already in use"}, res.Output)
}

func TestScript(t *testing.T) {
	term := newTestTerminal(t)

	out := term.mustRun("script deploy")
	assert.Equal(t, "Created script deploy.sh", out[0])

	content := term.fixture.Read("/deploy.sh")
	assert.Contains(t, content, "# deploy.sh")

	report := term.run("bash deploy.sh")
	assert.True(t, report.Succeeded, "template is a no-op")

	res := term.run("script notes.txt")
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"script: notes.txt: script names must end in .sh"}, res.Output)

	res = term.run("script deploy.sh")
	assert.False(t, res.Succeeded, "never overwrites")
}
