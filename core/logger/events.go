package logger

// Event type names as they appear in the "type" field of a record.
const (
	TypeLogin             = "login"
	TypeRunCommand        = "run_command"
	TypeUnknownCommand    = "unknown_command"
	TypeInvalidInvocation = "invalid_invocation"
	TypeScriptRun         = "script_run"
	TypeStorageOp         = "storage_op"
	TypePanic             = "panic"
)

// LogType is an event that can be recorded.
type LogType interface {
	logType() string
	fields() map[string]interface{}
}

// Login is recorded when a terminal session is opened.
type Login struct {
	Username   string
	RemoteAddr string
	Succeeded  bool
}

func (*Login) logType() string { return TypeLogin }

func (e *Login) fields() map[string]interface{} {
	return map[string]interface{}{
		"username":    e.Username,
		"remote_addr": e.RemoteAddr,
		"succeeded":   e.Succeeded,
	}
}

// RunCommand is recorded for every dispatched command.
type RunCommand struct {
	Command     string
	Args        []string
	WorkingPath string
	Succeeded   bool
}

func (*RunCommand) logType() string { return TypeRunCommand }

func (e *RunCommand) fields() map[string]interface{} {
	return map[string]interface{}{
		"command":      e.Command,
		"args":         stringList(e.Args),
		"working_path": e.WorkingPath,
		"succeeded":    e.Succeeded,
	}
}

// UnknownCommand is recorded when the dispatch table has no entry.
type UnknownCommand struct {
	Command string
	Args    []string
}

func (*UnknownCommand) logType() string { return TypeUnknownCommand }

func (e *UnknownCommand) fields() map[string]interface{} {
	return map[string]interface{}{
		"command": e.Command,
		"args":    stringList(e.Args),
	}
}

// InvalidInvocation is recorded when a command rejects its arguments.
type InvalidInvocation struct {
	Command string
	Error   string
}

func (*InvalidInvocation) logType() string { return TypeInvalidInvocation }

func (e *InvalidInvocation) fields() map[string]interface{} {
	return map[string]interface{}{
		"command": e.Command,
		"error":   e.Error,
	}
}

// ScriptRun summarizes one script execution.
type ScriptRun struct {
	Script      string
	Args        []string
	Lines       int
	FailedLines int
	Succeeded   bool
}

func (*ScriptRun) logType() string { return TypeScriptRun }

func (e *ScriptRun) fields() map[string]interface{} {
	return map[string]interface{}{
		"script":       e.Script,
		"args":         stringList(e.Args),
		"lines":        e.Lines,
		"failed_lines": e.FailedLines,
		"succeeded":    e.Succeeded,
	}
}

// StorageOp is recorded for each call into the storage collaborator.
type StorageOp struct {
	Op       string
	Path     string
	Identity string
	// Error is empty on success.
	Error string
}

func (*StorageOp) logType() string { return TypeStorageOp }

func (e *StorageOp) fields() map[string]interface{} {
	return map[string]interface{}{
		"op":       e.Op,
		"path":     e.Path,
		"identity": e.Identity,
		"error":    e.Error,
	}
}

// Panic captures a recovered programming defect.
type Panic struct {
	Context    string
	Stacktrace string
}

func (*Panic) logType() string { return TypePanic }

func (e *Panic) fields() map[string]interface{} {
	return map[string]interface{}{
		"context":    e.Context,
		"stacktrace": e.Stacktrace,
	}
}

// structpb only converts []interface{} lists.
func stringList(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
