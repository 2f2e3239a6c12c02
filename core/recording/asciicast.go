package recording

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// AsciicastFileExt holds the suggested file extension for asciicast files.
const AsciicastFileExt = "cast"

// Header describes an asciicast recording.
type Header struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

func writeJSONLine(w io.Writer, structure interface{}) error {
	line, err := json.Marshal(structure)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", line)
	return err
}

// NewAsciicastSink creates a Sink that writes asciicast v2. The header is
// written along with the first frame.
//
// See: https://github.com/asciinema/asciinema/blob/develop/doc/asciicast-v2.md
func NewAsciicastSink(w io.Writer, title string) Sink {
	var start time.Time

	return func(f *Frame) error {
		if start.IsZero() {
			start = f.At
			// Generic settings that display most sessions.
			err := writeJSONLine(w, &Header{
				Version:   2,
				Width:     80,
				Height:    24,
				Timestamp: start.Unix(),
				Title:     title,
				Env: map[string]string{
					"TERM":  "xterm-256color",
					"SHELL": "/bin/sh",
				},
			})
			if err != nil {
				return err
			}
		}

		direction := "o"
		if f.Stream == Input {
			direction = "i"
		}

		return writeJSONLine(w, &asciicastLine{
			Seconds:   f.At.Sub(start).Seconds(),
			EventType: direction,
			Data:      string(f.Data),
		})
	}
}

// AsciicastSource reads frames from an asciicast v2 recording.
type AsciicastSource struct {
	r      *bufio.Reader
	header *Header
}

var _ Source = (*AsciicastSource)(nil)

// NewAsciicastSource creates a source, the header is read lazily.
func NewAsciicastSource(r io.Reader) *AsciicastSource {
	return &AsciicastSource{r: bufio.NewReader(r)}
}

// Header reads the recording's header.
func (s *AsciicastSource) Header() (*Header, error) {
	if s.header != nil {
		return s.header, nil
	}

	line, err := s.r.ReadBytes('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return nil, err
	}

	var header Header
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header.Version != 2 {
		return nil, fmt.Errorf("unsupported asciicast version %d", header.Version)
	}
	s.header = &header
	return s.header, nil
}

// Next gets the next frame, it returns io.EOF if there are no more.
func (s *AsciicastSource) Next() (*Frame, error) {
	header, err := s.Header()
	if err != nil {
		return nil, err
	}
	start := time.Unix(header.Timestamp, 0)

	for {
		line, err := s.r.ReadBytes('\n')
		if len(line) == 0 && err != nil {
			return nil, err
		}

		if len(line) == 1 {
			// Skip blank lines
			continue
		}

		var event asciicastLine
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, err
		}

		var stream Stream
		switch event.EventType {
		case "o":
			stream = Output
		case "i":
			stream = Input
		default:
			// skip unknown events
			continue
		}

		return &Frame{
			At:     start.Add(time.Duration(event.Seconds * float64(time.Second))),
			Stream: stream,
			Data:   []byte(event.Data),
		}, nil
	}
}

// asciicastLine is a [seconds, type, data] event.
type asciicastLine struct {
	Seconds   float64
	EventType string
	Data      string
}

func (l *asciicastLine) UnmarshalJSON(data []byte) error {
	var v []interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if count := len(v); count != 3 {
		return fmt.Errorf("malformed line, expected 3 entries got %d", count)
	}

	var timeOk, typeOk, dataOk bool
	l.Seconds, timeOk = v[0].(float64)
	l.EventType, typeOk = v[1].(string)
	l.Data, dataOk = v[2].(string)

	if !timeOk || !typeOk || !dataOk {
		return fmt.Errorf("malformed data in line: %q", v)
	}

	return nil
}

func (l *asciicastLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{l.Seconds, l.EventType, l.Data})
}
