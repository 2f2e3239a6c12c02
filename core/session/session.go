// Package session holds the state of one terminal: its working path, its
// history and the gate that lets a single command run at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/josephlewis42/vterm/commands"
	"github.com/josephlewis42/vterm/core/history"
	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/shell"
	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/josephlewis42/vterm/core/vpath"
)

var (
	// ErrEmptyInput is returned by Submit for blank lines.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned by Submit while another submission is running.
	ErrBusy = errors.New("a command is already running")
)

// Options configure a Session.
type Options struct {
	FS       vfs.FS
	Identity vfs.Identity

	// Commands are passed to every command. Zero values are replaced by
	// commands.DefaultOptions.
	Commands commands.Options
	// Registry defaults to commands.Builtins.
	Registry *commands.Registry
	// Recorder defaults to logger.Discard.
	Recorder logger.Recorder
	// Now defaults to time.Now.
	Now func() time.Time

	// HistoryLimit caps the history, zero keeps everything.
	HistoryLimit int
	// WorkingPath is where the session starts, the root by default.
	WorkingPath string

	// OnClear is called after a command clears the history so the display
	// can be wiped too.
	OnClear func()
}

// Session is the state of a single terminal. Submit may be called from any
// goroutine but only one submission runs at a time.
type Session struct {
	opts Options

	processing atomic.Bool

	mu          sync.Mutex
	workingPath string
	history     *history.Log
}

// New creates a session.
func New(opts Options) *Session {
	defaults := commands.DefaultOptions()
	if opts.Commands.DefaultExtension == "" {
		opts.Commands.DefaultExtension = defaults.DefaultExtension
	}
	if opts.Commands.ScriptExtension == "" {
		opts.Commands.ScriptExtension = defaults.ScriptExtension
	}
	if opts.Commands.MaxScriptDepth == 0 {
		opts.Commands.MaxScriptDepth = defaults.MaxScriptDepth
	}
	if opts.Registry == nil {
		opts.Registry = commands.Builtins()
	}
	if opts.Recorder == nil {
		opts.Recorder = logger.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Session{
		opts:        opts,
		workingPath: vpath.Clean(opts.WorkingPath),
		history:     history.NewLog(opts.HistoryLimit),
	}
}

// Identity is the user the session acts as.
func (s *Session) Identity() vfs.Identity {
	return s.opts.Identity
}

// Recorder gets the session's event recorder.
func (s *Session) Recorder() logger.Recorder {
	return s.opts.Recorder
}

// WorkingPath gets the current working path.
func (s *Session) WorkingPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.workingPath
}

// History returns a copy of the history, oldest first.
func (s *Session) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Entries()
}

// Processing reports whether a submission is running.
func (s *Session) Processing() bool {
	return s.processing.Load()
}

// HasHistory reports whether there's anything to recall.
func (s *Session) HasHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Len() > 0
}

// Recalling reports whether a history entry is selected for recall.
func (s *Session) Recalling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Selected()
}

// RecallOlder moves the recall cursor back and returns the command text
// to put in the input buffer.
func (s *Session) RecallOlder() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Older()
}

// RecallNewer moves the recall cursor forward, returning "" once it moves
// past the newest entry.
func (s *Session) RecallNewer() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Newer()
}

// Submit runs a line of input and records it in the history.
//
// Blank lines return ErrEmptyInput and submissions made while another one
// is running return ErrBusy; neither touches the history. Command failures
// aren't errors, they're reported through the returned entry.
func (s *Session) Submit(ctx context.Context, raw string) (history.Entry, error) {
	if shell.IsBlank(raw) {
		return history.Entry{}, ErrEmptyInput
	}

	return s.run(raw, func(env *commands.Env) commands.Result {
		name, args := shell.Tokenize(raw)
		return env.Registry.Dispatch(ctx, env, name, args)
	})
}

// RunScript runs script text from outside the filesystem, such as a file
// on the host, as if it had been started with bash. It's recorded in the
// history like a submission.
func (s *Session) RunScript(ctx context.Context, name, text string, args []string) (history.Entry, error) {
	commandText := strings.Join(append([]string{"bash", name}, args...), " ")

	return s.run(commandText, func(env *commands.Env) commands.Result {
		env = env.With("bash", append([]string{name}, args...))
		return commands.Execute(ctx, env, commands.ScriptInvocation{
			Name:        name,
			Text:        text,
			Args:        args,
			WorkingPath: env.WorkingPath,
		}).Result()
	})
}

// run holds the gate while fn runs then applies its result.
func (s *Session) run(commandText string, fn func(env *commands.Env) commands.Result) (history.Entry, error) {
	if !s.processing.CompareAndSwap(false, true) {
		return history.Entry{}, ErrBusy
	}
	defer s.processing.Store(false)

	res, err := s.call(commandText, fn)
	if err != nil {
		return history.Entry{}, err
	}

	entry := history.Entry{
		CommandText: strings.TrimSpace(commandText),
		Output:      res.Output,
		Succeeded:   res.Succeeded,
		ExecutedAt:  s.opts.Now(),
	}

	s.mu.Lock()
	if res.Chdir != "" {
		s.workingPath = res.Chdir
	}
	if res.ClearHistory {
		s.history.Clear()
	} else {
		s.history.Append(entry)
	}
	s.mu.Unlock()

	if res.ClearHistory && s.opts.OnClear != nil {
		s.opts.OnClear()
	}
	return entry, nil
}

// call runs fn, turning a panic into an error.
func (s *Session) call(commandText string, fn func(env *commands.Env) commands.Result) (res commands.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = s.opts.Recorder.Record(&logger.Panic{
				Context:    fmt.Sprintf("submit %q: %v", commandText, r),
				Stacktrace: string(debug.Stack()),
			})
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()

	return fn(s.env()), nil
}

func (s *Session) env() *commands.Env {
	return &commands.Env{
		WorkingPath: s.WorkingPath(),
		FS:          s.opts.FS,
		Identity:    s.opts.Identity,
		Options:     s.opts.Commands,
		Now:         s.opts.Now,
		History:     s.History,
		Recorder:    s.opts.Recorder,
		Registry:    s.opts.Registry,
	}
}
