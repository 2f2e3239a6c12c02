package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/vfs"
)

// Result is what a command hands back to the session.
type Result struct {
	Output    []string
	Succeeded bool

	// Chdir, if set, asks the session to move to this working path.
	Chdir string
	// ClearHistory asks the session to empty its history.
	ClearHistory bool
}

// Ok returns a successful result with the given output.
func Ok(lines ...string) Result {
	return Result{Output: lines, Succeeded: true}
}

// Fail returns a failed result with the given output.
func Fail(lines ...string) Result {
	return Result{Output: lines}
}

// Failf returns a failed result with a single formatted line.
func Failf(format string, a ...interface{}) Result {
	return Fail(fmt.Sprintf(format, a...))
}

// HandlerFunc runs a command. Handlers report every problem through the
// Result they return.
type HandlerFunc func(ctx context.Context, env *Env) Result

// Spec describes a builtin command.
type Spec struct {
	Name    string
	Aliases []string
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// MinArgs is the number of operands the command needs once flags are
	// parsed.
	MinArgs int
	// Async is set for commands that call the storage service.
	Async   bool
	Handler HandlerFunc
}

// Names returns the name followed by the aliases.
func (s *Spec) Names() []string {
	return append([]string{s.Name}, s.Aliases...)
}

var (
	allSpecs []*Spec

	builtinsOnce sync.Once
	builtins     *Registry
)

// mustRegister adds a builtin, it's called from init functions.
func mustRegister(spec *Spec) {
	if spec.Handler == nil {
		panic(fmt.Sprintf("command %q has no handler", spec.Name))
	}
	allSpecs = append(allSpecs, spec)
}

// Registry is an immutable, case-insensitive command table.
type Registry struct {
	byName map[string]*Spec
	specs  []*Spec
}

// NewRegistry builds a table from specs. Names must be unique.
func NewRegistry(specs ...*Spec) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Spec)}
	for _, spec := range specs {
		for _, name := range spec.Names() {
			key := strings.ToLower(name)
			if _, ok := r.byName[key]; ok {
				return nil, fmt.Errorf("duplicate command name %q", name)
			}
			r.byName[key] = spec
		}
		r.specs = append(r.specs, spec)
	}

	sort.Slice(r.specs, func(i, j int) bool {
		return r.specs[i].Name < r.specs[j].Name
	})
	return r, nil
}

// Builtins returns the table of every builtin command.
func Builtins() *Registry {
	builtinsOnce.Do(func() {
		r, err := NewRegistry(allSpecs...)
		if err != nil {
			panic(err)
		}
		builtins = r
	})
	return builtins
}

// Lookup finds a command by name, ignoring case.
func (r *Registry) Lookup(name string) (*Spec, bool) {
	spec, ok := r.byName[strings.ToLower(name)]
	return spec, ok
}

// Specs lists the commands sorted by name.
func (r *Registry) Specs() []*Spec {
	return append([]*Spec(nil), r.specs...)
}

// Dispatch runs the named command with args against a copy of env.
func (r *Registry) Dispatch(ctx context.Context, env *Env, name string, args []string) Result {
	// ./NAME is shorthand for bash NAME.
	if script := strings.TrimPrefix(name, "./"); script != name {
		name, args = "bash", append([]string{script}, args...)
	}

	cmdEnv := env.With(name, args)
	cmdEnv.Registry = r

	spec, ok := r.Lookup(name)
	if !ok {
		cmdEnv.record(&logger.UnknownCommand{Command: name, Args: args})
		return Fail(
			fmt.Sprintf("Command '%s' not recognized", name),
			"Type 'help' to see available commands.",
		)
	}
	cmdEnv.spec = spec

	res := spec.Handler(ctx, cmdEnv)

	cmdEnv.record(&logger.RunCommand{
		Command:     name,
		Args:        args,
		WorkingPath: cmdEnv.WorkingPath,
		Succeeded:   res.Succeeded,
	})
	return res
}

// storageFailure converts a storage error into a failed result.
func (e *Env) storageFailure(err error) Result {
	return Failf("%s: %s", e.Name, vfs.Describe(err))
}
