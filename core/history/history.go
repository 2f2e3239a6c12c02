// Package history stores the commands submitted to a terminal session and
// lets the user walk back through them.
package history

import (
	"time"
)

// Entry is one completed submission. Entries are never modified once
// they're in a Log.
type Entry struct {
	CommandText string
	Output      []string
	Succeeded   bool
	ExecutedAt  time.Time
}

func (e Entry) clone() Entry {
	e.Output = append([]string(nil), e.Output...)
	return e
}

const noSelection = -1

// Log is an append-only list of entries with a recall cursor.
//
// A Log belongs to a single session and isn't safe for concurrent use.
type Log struct {
	entries []Entry
	limit   int
	cursor  int
}

// NewLog creates a Log holding at most limit entries; the oldest are
// dropped first. Limits below one mean no limit.
func NewLog(limit int) *Log {
	return &Log{limit: limit, cursor: noSelection}
}

// Append records an entry and resets the recall cursor.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e.clone())
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = append([]Entry(nil), l.entries[len(l.entries)-l.limit:]...)
	}
	l.ResetCursor()
}

// Entries returns a copy of the log, oldest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.entries = nil
	l.ResetCursor()
}

// Selected reports whether an entry is selected for recall.
func (l *Log) Selected() bool {
	return l.cursor != noSelection
}

// ResetCursor deselects any recalled entry.
func (l *Log) ResetCursor() {
	l.cursor = noSelection
}

// Older moves the cursor toward the start of the log and returns the
// selected command text. The cursor stops at the oldest entry. An empty
// log returns "".
func (l *Log) Older() string {
	if len(l.entries) == 0 {
		return ""
	}

	switch {
	case l.cursor == noSelection:
		l.cursor = len(l.entries) - 1
	case l.cursor > 0:
		l.cursor--
	}
	return l.entries[l.cursor].CommandText
}

// Newer moves the cursor toward the end of the log and returns the
// selected command text. Moving past the newest entry deselects and
// returns "".
func (l *Log) Newer() string {
	if l.cursor == noSelection {
		return ""
	}

	l.cursor++
	if l.cursor >= len(l.entries) {
		l.ResetCursor()
		return ""
	}
	return l.entries[l.cursor].CommandText
}
