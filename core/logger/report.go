package logger

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// LogEntry is a single decoded record.
type LogEntry struct {
	raw   *structpb.Struct
	event map[string]interface{}
}

// Type returns the event type, e.g. TypeRunCommand.
func (le *LogEntry) Type() string {
	return le.raw.GetFields()["type"].GetStringValue()
}

// SessionID returns the session the event belongs to, if any.
func (le *LogEntry) SessionID() string {
	return le.raw.GetFields()["session_id"].GetStringValue()
}

// Time returns when the event was recorded.
func (le *LogEntry) Time() time.Time {
	micros := le.raw.GetFields()["timestamp_micros"].GetNumberValue()
	return time.UnixMicro(int64(micros))
}

// String reads a string field of the event payload.
func (le *LogEntry) String(key string) string {
	s, _ := le.event[key].(string)
	return s
}

// Bool reads a boolean field of the event payload.
func (le *LogEntry) Bool(key string) bool {
	b, _ := le.event[key].(bool)
	return b
}

// Int reads a numeric field of the event payload.
func (le *LogEntry) Int(key string) int {
	f, _ := le.event[key].(float64)
	return int(f)
}

// Strings reads a list field of the event payload.
func (le *LogEntry) Strings(key string) []string {
	list, _ := le.event[key].([]interface{})
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var record structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &record); err != nil {
			return err
		}

		event, _ := record.GetFields()["event"].AsInterface().(map[string]interface{})
		handler(&LogEntry{raw: &record, event: event})
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Login             LoginReport             `json:"login_report"`
	RunCommand        RunCommandReport        `json:"run_command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	ScriptRun         ScriptRunReport         `json:"script_run_report"`
	Storage           StorageReport           `json:"storage_report"`
	Panic             PanicReport             `json:"panic_report"`
}

// Update adds the entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Type() {
	case TypeLogin:
		r.Login.update(le)
	case TypeRunCommand:
		r.RunCommand.update(le)
	case TypeUnknownCommand:
		r.UnknownCommand.update(le)
	case TypeInvalidInvocation:
		r.InvalidInvocation.update(le)
	case TypeScriptRun:
		r.ScriptRun.update(le)
	case TypeStorageOp:
		r.Storage.update(le)
	case TypePanic:
		r.Panic.update(le)
	default:
		r.InvalidEntries.Increment(le.Type())
	}
}

type LoginReport struct {
	Usernames StrCounter `json:"usernames"`
	Results   StrCounter `json:"results"`
}

func (r *LoginReport) update(le *LogEntry) {
	r.Usernames.Increment(le.String("username"))
	r.Results.Increment(resultName(le.Bool("succeeded")))
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Names of commands that reported failure.
	Failures StrCounter `json:"failures"`
}

func (r *RunCommandReport) update(le *LogEntry) {
	name := le.String("command")
	r.CommandNames.Increment(name)
	if !le.Bool("succeeded") {
		r.Failures.Increment(name)
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.String("command"))
}

type InvalidInvocationReport struct {
	CommandNames StrCounter `json:"command_counts"`
}

func (r *InvalidInvocationReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.String("command"))
}

type ScriptRunReport struct {
	Count       int        `json:"count"`
	Scripts     StrCounter `json:"scripts"`
	FailedLines int        `json:"failed_lines"`
	FailedRuns  int        `json:"failed_runs"`
}

func (r *ScriptRunReport) update(le *LogEntry) {
	r.Count++
	r.Scripts.Increment(le.String("script"))
	r.FailedLines += le.Int("failed_lines")
	if !le.Bool("succeeded") {
		r.FailedRuns++
	}
}

type StorageReport struct {
	Ops    StrCounter   `json:"ops"`
	Errors *PathCounter `json:"errors"`
}

func (r *StorageReport) update(le *LogEntry) {
	if r.Errors == nil {
		r.Errors = NewPathCounter("op", "error")
	}

	op := le.String("op")
	r.Ops.Increment(op)
	if msg := le.String("error"); msg != "" {
		r.Errors.Increment(op, msg)
	}
}

type PanicReport struct {
	Contexts []string `json:"contexts"`
}

func (r *PanicReport) update(le *LogEntry) {
	r.Contexts = append(r.Contexts, le.String("context"))
}

func resultName(succeeded bool) string {
	if succeeded {
		return "success"
	}
	return "failure"
}

// InteractionReport lists what each session did, keyed by session ID.
type InteractionReport struct {
	interactions map[string]*InteractiveSession
}

type InteractiveSession struct {
	Username   string   `json:"username"`
	RemoteAddr string   `json:"remote_addr,omitempty"`
	LogEntries int      `json:"log_entries"`
	Commands   []string `json:"commands"`
	Scripts    []string `json:"scripts,omitempty"`
}

func (i *InteractiveSession) Update(le *LogEntry) {
	i.LogEntries++

	switch le.Type() {
	case TypeLogin:
		i.Username = le.String("username")
		i.RemoteAddr = le.String("remote_addr")
	case TypeRunCommand, TypeUnknownCommand:
		i.Commands = append(i.Commands, joinCommand(le.String("command"), le.Strings("args")))
	case TypeScriptRun:
		i.Scripts = append(i.Scripts, joinCommand(le.String("script"), le.Strings("args")))
	}
}

func (i *InteractionReport) Update(le *LogEntry) {
	if i.interactions == nil {
		i.interactions = make(map[string]*InteractiveSession)
	}

	sessionID := le.SessionID()
	if sessionID == "" {
		return
	}
	report, ok := i.interactions[sessionID]
	if !ok {
		report = &InteractiveSession{}
		i.interactions[sessionID] = report
	}

	report.Update(le)
}

// Sessions returns the per-session reports.
func (i *InteractionReport) Sessions() map[string]*InteractiveSession {
	return i.interactions
}

// MarshalJSON implements json.Marshaler.
func (i *InteractionReport) MarshalJSON() ([]byte, error) {
	if i.interactions == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(i.interactions)
}

func joinCommand(name string, args []string) string {
	out := name
	for _, a := range args {
		out += " " + a
	}
	return out
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(key string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}
	s.internal[key]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements json.Marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

// NewPathCounter counts tuples of values, one value per named column.
func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of column tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given tuple.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements json.Marshaler, most frequent tuples first.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
