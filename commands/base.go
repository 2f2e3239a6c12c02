package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/josephlewis42/vterm/core/history"
	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/vfs"
	getopt "github.com/pborman/getopt/v2"
)

// Options are the tunables commands read from configuration.
type Options struct {
	// DefaultExtension is appended by touch to names without one.
	DefaultExtension string
	// ScriptExtension is the extension script files must have.
	ScriptExtension string
	// MaxScriptDepth limits how deeply scripts may run other scripts.
	MaxScriptDepth int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DefaultExtension: "txt",
		ScriptExtension:  "sh",
		MaxScriptDepth:   8,
	}
}

// Env is everything a command can see while it runs.
type Env struct {
	// Name is the command name as typed.
	Name string
	Args []string
	// WorkingPath is fixed for the duration of the command.
	WorkingPath string

	FS       vfs.FS
	Identity vfs.Identity
	Options  Options

	Now      func() time.Time
	History  func() []history.Entry
	Recorder logger.Recorder
	Registry *Registry

	spec  *Spec
	depth int
}

// With copies the environment for a new invocation.
func (e *Env) With(name string, args []string) *Env {
	out := *e
	out.Name = name
	out.Args = append([]string(nil), args...)
	out.spec = nil
	return &out
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) history() []history.Entry {
	if e.History == nil {
		return nil
	}
	return e.History()
}

func (e *Env) record(event logger.LogType) {
	if e.Recorder == nil {
		return
	}
	_ = e.Recorder.Record(event)
}

// LogInvalidInvocation records that the command was called incorrectly.
func (e *Env) LogInvalidInvocation(err error) {
	e.record(&logger.InvalidInvocation{Command: e.Name, Error: err.Error()})
}

func (e *Env) use() string {
	if e.spec == nil || e.spec.Use == "" {
		return e.Name
	}
	return e.spec.Use
}

func (e *Env) usageFailure(msg string) Result {
	e.LogInvalidInvocation(errors.New(msg))
	return Fail(
		fmt.Sprintf("%s: %s", e.Name, msg),
		"usage: "+e.use(),
	)
}

var errIsDirectory = errors.New("is a directory")

// list reads the working directory.
func (e *Env) list(ctx context.Context) ([]vfs.Entry, error) {
	return e.FS.ListEntries(ctx, e.Identity, e.WorkingPath)
}

// findEntry looks name up in the working directory listing.
func (e *Env) findEntry(ctx context.Context, name string) (vfs.Entry, error) {
	entries, err := e.list(ctx)
	if err != nil {
		return vfs.Entry{}, err
	}

	if entry, ok := entryNamed(entries, name); ok {
		return entry, nil
	}
	return vfs.Entry{}, &fs.PathError{Op: e.Name, Path: name, Err: vfs.ErrNotFound}
}

// findFile looks name up in the working directory and requires a file.
func (e *Env) findFile(ctx context.Context, name string) (vfs.Entry, error) {
	entry, err := e.findEntry(ctx, name)
	if err != nil {
		return entry, err
	}
	if entry.IsDir() {
		return entry, &fs.PathError{Op: e.Name, Path: name, Err: errIsDirectory}
	}
	return entry, nil
}

// readLines reads a text file and splits it into lines.
func (e *Env) readLines(ctx context.Context, p string) ([]string, error) {
	text, err := e.FS.ReadText(ctx, e.Identity, p)
	if err != nil {
		return nil, err
	}
	return splitLines(text), nil
}

// describeCause returns the reason a storage call failed without the path.
func describeCause(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

func entryNamed(entries []vfs.Entry, name string) (vfs.Entry, bool) {
	for _, entry := range entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return vfs.Entry{}, false
}

// splitLines splits text on newlines; a trailing newline doesn't start a
// new line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// SimpleCommand handles flag parsing and help for a command.
type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// MinArgs is the number of operands required after flags are parsed.
	MinArgs int
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Command creates a SimpleCommand described by the dispatched spec.
func (e *Env) Command() *SimpleCommand {
	cmd := &SimpleCommand{Use: e.use()}
	if e.spec != nil {
		cmd.Short = e.spec.Short
		cmd.MinArgs = e.spec.MinArgs
	}
	return cmd
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// Help returns help for the command.
func (s *SimpleCommand) Help() []string {
	var buf bytes.Buffer
	s.Flags().PrintOptions(&buf)

	out := []string{"usage: " + s.Use}
	if s.Short != "" {
		out = append(out, s.Short)
	}
	out = append(out, "", "Flags:")
	return append(out, splitLines(buf.String())...)
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(env *Env, callback func() Result) Result {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(append([]string{env.Name}, env.Args...), nil); err != nil {
		env.LogInvalidInvocation(err)

		out := []string{fmt.Sprintf("%s: %s", env.Name, err), ""}
		return Fail(append(out, s.Help()...)...)
	}

	if *s.ShowHelp {
		return Ok(s.Help()...)
	}

	if len(opts.Args()) < s.MinArgs {
		return env.usageFailure("missing operand")
	}

	return callback()
}
