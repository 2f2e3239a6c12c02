package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/vterm/core/history"
	"github.com/josephlewis42/vterm/core/session"
)

const (
	DefaultPrompt = `\u@\h:\w\$ `

	clearScreen = "\033[H\033[2J"
)

// ConsoleConfig describes the terminal a Console runs on.
type ConsoleConfig struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Width gets the terminal width, IsTerminal reports whether the other
	// end can handle escape codes.
	Width      func() int
	IsTerminal func() bool

	Hostname string
	Prompt   string
}

// Console is a readline front end for a Session.
type Console struct {
	Session  *session.Session
	Readline *readline.Instance

	hostname   string
	prompt     string
	isTerminal func() bool

	// Set to true to quit the console.
	Quit bool
}

// NewConsole attaches a readline to the session. The session should be
// created with the console's Clear method as its OnClear hook.
func NewConsole(s *session.Session, cc ConsoleConfig) (*Console, error) {
	if cc.IsTerminal == nil {
		cc.IsTerminal = func() bool { return false }
	}
	if cc.Prompt == "" {
		cc.Prompt = DefaultPrompt
	}

	console := &Console{
		Session:    s,
		hostname:   cc.Hostname,
		prompt:     cc.Prompt,
		isTerminal: cc.IsTerminal,
	}

	cfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(cc.Stdin),
		Stdout:         cc.Stdout,
		Stderr:         cc.Stderr,
		FuncGetWidth:   cc.Width,
		FuncIsTerminal: cc.IsTerminal,

		// The session keeps the history, readline only edits the line.
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		Listener:               recallListener{s},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	console.Readline = rl

	return console, nil
}

// recallListener maps the up and down keys to the session's history. The
// typed line is left alone when there's nothing to move to.
type recallListener struct {
	session *session.Session
}

func (r recallListener) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	var recalled string
	switch {
	case key == readline.CharPrev && r.session.HasHistory():
		recalled = r.session.RecallOlder()
	case key == readline.CharNext && r.session.Recalling():
		recalled = r.session.RecallNewer()
	default:
		return nil, 0, false
	}

	out := []rune(recalled)
	return out, len(out), true
}

// Prompt expands the prompt template for the session's current state.
func (c *Console) Prompt() string {
	user := c.Session.Identity().String()
	host := c.hostname
	wd := c.Session.WorkingPath()

	if c.isTerminal() {
		user = colorize(user, color.FgGreen, color.Bold)
		host = colorize(host, color.FgGreen, color.Bold)
		wd = colorize(wd, color.FgBlue, color.Bold)
	}

	prompt := strings.ReplaceAll(c.prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, host)
	prompt = strings.ReplaceAll(prompt, `\w`, wd)
	return strings.ReplaceAll(prompt, `\$`, "$")
}

// Clear wipes the screen.
func (c *Console) Clear() {
	if c.isTerminal() {
		fmt.Fprint(c.Readline, clearScreen)
	}
}

// Run reads and submits lines until the input is closed, the context is
// done or the user exits.
func (c *Console) Run(ctx context.Context) error {
	defer c.Readline.Close()

	for !c.Quit {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.Readline.SetPrompt(c.Prompt())
		line, err := c.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue
		}

		switch strings.TrimSpace(line) {
		case "exit", "logout":
			c.Quit = true
			continue
		}

		entry, err := c.Session.Submit(ctx, line)
		switch {
		case errors.Is(err, session.ErrEmptyInput):
			continue
		case err != nil:
			fmt.Fprintf(c.Readline, "vterm: %s\n", err)
			continue
		}

		RenderEntry(c.Readline, entry, c.isTerminal())
	}
	return nil
}

// RenderEntry writes the output of a history entry, failures in red if
// useColor is set.
func RenderEntry(w io.Writer, entry history.Entry, useColor bool) {
	for _, line := range entry.Output {
		if useColor && !entry.Succeeded {
			line = colorize(line, color.FgRed)
		}
		fmt.Fprintln(w, line)
	}
}

// colorize emits escape codes even when color.NoColor is set.
func colorize(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}
