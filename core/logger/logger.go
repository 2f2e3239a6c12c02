package logger

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Recorder is anything that can record events for a session.
type Recorder interface {
	Record(event LogType) error
}

// Logger captures interaction event logs for the terminal.
type Logger struct {
	Record LogRecorder

	now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format. It's safe to share between sessions.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
		now: time.Now,
	}
}

// SetClock overrides the time source used to stamp records.
func (l *Logger) SetClock(now func() time.Time) {
	l.now = now
}

func (l *Logger) recordLogType(sessionID string, event LogType) error {
	now := time.Now
	if l.now != nil {
		now = l.now
	}

	le, err := structpb.NewStruct(map[string]interface{}{
		"timestamp_micros": now().UnixMicro(),
		"session_id":       sessionID,
		"type":             event.logType(),
		"event":            event.fields(),
	})
	if err != nil {
		return err
	}

	return l.Record(le)
}

// NewSession creates a logger with a fresh session ID attached.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.NewString()}
}

// Sessionless creates a logger for events not tied to a session.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

var _ Recorder = (*SessionLogger)(nil)

// Record implements Recorder.
func (l *SessionLogger) Record(event LogType) error {
	return l.recordLogType(l.sessionID, event)
}

// SessionID returns the ID attached to every record.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

type discard struct{}

func (discard) Record(LogType) error { return nil }

// Discard is a Recorder that drops everything.
var Discard Recorder = discard{}
