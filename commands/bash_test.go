package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/vfs/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greetScript = `# greet.sh says hello
echo Hello $1, you are in $PWD

cat missing.txt
echo done by $USER
`

func withGreet(f *vfstest.Fixture) {
	f.File("/greet.sh", greetScript).Dir("/docs")
}

func withMixedCaseGreet(f *vfstest.Fixture) {
	f.File("/Greet.sh", greetScript)
}

func TestBash(t *testing.T) {
	cases := goldenTestSuite{
		"greet":      {Line: "bash greet.sh Sam", Setup: withGreet},
		"dot-slash":  {Line: "./greet.sh Sam", Setup: withGreet},
		"mixed-case": {Line: "./Greet.sh Sam", Setup: withMixedCaseGreet},
		"not-found":  {Line: "bash nope.sh", Setup: withGreet},
		"directory":  {Line: "sh docs", Setup: withGreet},
		"no-arg":     {Line: "bash"},
	}

	cases.Run(t)
}

func TestBash_continuesPastFailures(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.File("/run.sh", "cat missing.txt\necho done\n")

	res := term.run("bash run.sh")
	assert.False(t, res.Succeeded)
	assert.Contains(t, res.Output, "cat: missing.txt: no such file or directory")
	assert.Contains(t, res.Output, "done")
	assert.Equal(t, "Script run.sh completed with errors: 2 lines, 1 failed", res.Output[len(res.Output)-1])
}

func TestBash_fixedWorkingPath(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.
		File("/move.sh", "cd docs\npwd\nclear\n").
		Dir("/docs")

	res := term.run("bash move.sh")
	assert.True(t, res.Succeeded)
	assert.Empty(t, res.Chdir)
	assert.False(t, res.ClearHistory)
	assert.Equal(t, []string{
		"Executing move.sh",
		"[1] cd docs",
		"cd: scripts keep working directory /",
		"[2] pwd",
		"/",
		"[3] clear",
		"Script move.sh completed: 3 lines, 0 failed",
	}, res.Output)
	assert.Equal(t, "/", term.env.WorkingPath)
}

func TestBash_blankAfterSubstitution(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.File("/args.sh", "echo start\n$@\necho end\n")

	res := term.run("bash args.sh")
	assert.True(t, res.Succeeded, res.Output)
	assert.Equal(t, []string{
		"Executing args.sh",
		"[1] echo start",
		"start",
		"[3] echo end",
		"end",
		"Script args.sh completed: 2 lines, 0 failed",
	}, res.Output)
}

func TestBash_nested(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.
		File("/outer.sh", "bash inner.sh $@\n").
		File("/inner.sh", "echo inner got $2 then $1\n")

	res := term.run("bash outer.sh one two")
	assert.True(t, res.Succeeded)
	assert.Contains(t, res.Output, "[1] bash inner.sh one two")
	assert.Contains(t, res.Output, "inner got two then one")
}

func TestBash_depthLimit(t *testing.T) {
	term := newTestTerminal(t)
	term.env.Options.MaxScriptDepth = 3
	term.fixture.File("/loop.sh", "bash loop.sh\n")

	res := term.run("bash loop.sh")
	assert.False(t, res.Succeeded)
	assert.Contains(t, res.Output, "bash: loop.sh: scripts nested more than 3 deep")
	assert.Equal(t, 3, strings.Count(strings.Join(res.Output, "\n"), "Executing loop.sh"))
}

func TestBash_records(t *testing.T) {
	buf := &bytes.Buffer{}
	term := newTestTerminal(t)
	term.env.Recorder = logger.NewJsonLinesLogRecorder(buf).NewSession()
	withGreet(term.fixture)

	term.run("bash greet.sh Sam")
	term.run("bash nope.sh")

	var report logger.Report
	require.NoError(t, logger.ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 1, report.ScriptRun.Count)
	assert.Equal(t, 1, report.ScriptRun.FailedRuns)
	assert.Equal(t, 1, report.ScriptRun.FailedLines)
	assert.Equal(t, 1, report.ScriptRun.Scripts.Get("greet.sh"))
	assert.Equal(t, 1, report.InvalidInvocation.CommandNames.Get("bash"))
	// Script lines are dispatched like any other command.
	assert.Equal(t, 2, report.RunCommand.CommandNames.Get("echo"))
	assert.Equal(t, 1, report.RunCommand.Failures.Get("cat"))
}

func TestExecute(t *testing.T) {
	term := newTestTerminal(t)
	term.fixture.File("/docs/a.txt", "a")

	report := Execute(context.Background(), term.env, ScriptInvocation{
		Name:        "inline",
		Text:        "ls\r\n\r\n# skipped\r\nfrobnicate $1\r\n",
		Args:        []string{"now"},
		WorkingPath: "/docs",
	})

	require.Len(t, report.Lines, 2)
	assert.Equal(t, 1, report.Lines[0].Number)
	assert.Equal(t, []string{"a.txt"}, report.Lines[0].Result.Output)
	assert.Equal(t, 4, report.Lines[1].Number)
	assert.Equal(t, "frobnicate now", report.Lines[1].Text)
	assert.False(t, report.Lines[1].Result.Succeeded)
	assert.False(t, report.Succeeded)
	assert.Equal(t, 1, report.Failed())
}
