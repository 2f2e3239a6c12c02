package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_duplicate(t *testing.T) {
	noop := func(context.Context, *Env) Result { return Ok() }

	_, err := NewRegistry(
		&Spec{Name: "ls", Handler: noop},
		&Spec{Name: "list", Aliases: []string{"LS"}, Handler: noop},
	)
	assert.Error(t, err)
}

func TestDispatch_unknown(t *testing.T) {
	term := newTestTerminal(t).at("/")
	res := term.run("frobnicate now")

	assert.False(t, res.Succeeded)
	require.NotEmpty(t, res.Output)
	assert.Equal(t, "Command 'frobnicate' not recognized", res.Output[0])
	assert.Equal(t, "/", term.env.WorkingPath)
}

func TestDispatch_caseInsensitive(t *testing.T) {
	term := newTestTerminal(t).at("/")
	assert.Equal(t, []string{"/"}, term.mustRun("PWD"))
	assert.Equal(t, []string{"/"}, term.mustRun("Pwd"))
}

func TestDispatch_missingOperand(t *testing.T) {
	for _, line := range []string{"mkdir", "touch", "rm", "cat", "grep TODO", "cp a.txt", "mv", "find", "stat", "bash", "script", "head", "rename a"} {
		t.Run(line, func(t *testing.T) {
			res := newTestTerminal(t).run(line)
			assert.False(t, res.Succeeded)
			require.NotEmpty(t, res.Output)
			assert.Contains(t, res.Output[len(res.Output)-1], "usage: ")
		})
	}
}

func TestDispatch_records(t *testing.T) {
	buf := &bytes.Buffer{}
	term := newTestTerminal(t)
	term.env.Recorder = logger.NewJsonLinesLogRecorder(buf).NewSession()

	term.run("pwd")
	term.run("frobnicate")
	term.run("mkdir")

	var report logger.Report
	require.NoError(t, logger.ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 1, report.RunCommand.CommandNames.Get("pwd"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("frobnicate"))
	assert.Equal(t, 1, report.InvalidInvocation.CommandNames.Get("mkdir"))
	assert.Equal(t, 1, report.RunCommand.Failures.Get("mkdir"))
}
