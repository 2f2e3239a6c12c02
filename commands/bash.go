package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/script"
	"github.com/josephlewis42/vterm/core/shell"
	"github.com/josephlewis42/vterm/core/vfs"
)

// ScriptInvocation is a loaded script ready to run.
type ScriptInvocation struct {
	Name string
	Text string
	Args []string
	// WorkingPath is used by every line, scripts can't change directory.
	WorkingPath string
}

// ScriptLine is the outcome of a single script line.
type ScriptLine struct {
	Number int
	Text   string
	Result Result
}

// ScriptReport is the outcome of a script run.
type ScriptReport struct {
	Name      string
	Args      []string
	Lines     []ScriptLine
	Succeeded bool

	// aborted is set when the script couldn't be started.
	aborted *Result
}

// Failed counts the lines that failed.
func (r ScriptReport) Failed() int {
	n := 0
	for _, l := range r.Lines {
		if !l.Result.Succeeded {
			n++
		}
	}
	return n
}

// Result flattens the report into the output of a single command.
func (r ScriptReport) Result() Result {
	if r.aborted != nil {
		return *r.aborted
	}

	out := []string{strings.TrimSpace("Executing " + r.Name + " " + strings.Join(r.Args, " "))}
	for _, l := range r.Lines {
		out = append(out, fmt.Sprintf("[%d] %s", l.Number, l.Text))
		out = append(out, l.Result.Output...)
	}

	status := "completed"
	if !r.Succeeded {
		status = "completed with errors"
	}
	out = append(out, fmt.Sprintf("Script %s %s: %d %s, %d failed",
		r.Name, status, len(r.Lines), plural(len(r.Lines), "line", "lines"), r.Failed()))

	return Result{Output: out, Succeeded: r.Succeeded}
}

func abortScript(name string, args []string, res Result) ScriptReport {
	return ScriptReport{Name: name, Args: args, aborted: &res}
}

var errScriptNotFound = errors.New("script not found")

// RunScript loads a script from the working directory and runs it.
func RunScript(ctx context.Context, env *Env, name string, args []string) ScriptReport {
	if limit := env.Options.MaxScriptDepth; limit > 0 && env.depth >= limit {
		return abortScript(name, args, Failf("%s: %s: scripts nested more than %d deep", env.Name, name, limit))
	}

	entry, err := env.findFile(ctx, name)
	switch {
	case errors.Is(err, vfs.ErrNotFound), errors.Is(err, errIsDirectory):
		env.LogInvalidInvocation(fmt.Errorf("%s: %w", name, errScriptNotFound))
		return abortScript(name, args, Failf("%s: %s: %s", env.Name, name, errScriptNotFound))
	case err != nil:
		return abortScript(name, args, env.storageFailure(err))
	}

	text, err := env.FS.ReadText(ctx, env.Identity, entry.Path)
	if err != nil {
		return abortScript(name, args, env.storageFailure(err))
	}

	return Execute(ctx, env, ScriptInvocation{
		Name:        name,
		Text:        text,
		Args:        args,
		WorkingPath: env.WorkingPath,
	})
}

// Execute runs every line of a script in order. Failed lines don't stop
// the run, but make the whole report fail.
func Execute(ctx context.Context, env *Env, inv ScriptInvocation) ScriptReport {
	registry := env.Registry
	if registry == nil {
		registry = Builtins()
	}

	lineEnv := env.With(env.Name, nil)
	lineEnv.WorkingPath = inv.WorkingPath
	lineEnv.depth = env.depth + 1

	report := ScriptReport{
		Name:      inv.Name,
		Args:      append([]string(nil), inv.Args...),
		Succeeded: true,
	}

	vars := script.Vars{
		Args: inv.Args,
		PWD:  inv.WorkingPath,
		User: env.Identity.String(),
	}
	for _, line := range script.Substitute(inv.Text, vars) {
		name, args := shell.Tokenize(line.Text)
		res := registry.Dispatch(ctx, lineEnv, name, args)

		// Lines share the invocation's working path and can't touch the
		// session's history.
		if res.Chdir != "" {
			res.Output = []string{fmt.Sprintf("%s: scripts keep working directory %s", name, inv.WorkingPath)}
			res.Chdir = ""
		}
		res.ClearHistory = false

		report.Lines = append(report.Lines, ScriptLine{
			Number: line.Number,
			Text:   line.Text,
			Result: res,
		})
		if !res.Succeeded {
			report.Succeeded = false
		}
	}

	env.record(&logger.ScriptRun{
		Script:      inv.Name,
		Args:        inv.Args,
		Lines:       len(report.Lines),
		FailedLines: report.Failed(),
		Succeeded:   report.Succeeded,
	})
	return report
}

// Bash runs a script from the working directory.
func Bash(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		return RunScript(ctx, env, args[0], args[1:]).Result()
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "bash",
		Aliases: []string{"sh"},
		Use:     "bash SCRIPT [ARG]...",
		Short:   "Run a script from the current directory, also ./SCRIPT [ARG]...",
		MinArgs: 1,
		Async:   true,
		Handler: Bash,
	})
}
