// Package recording captures what passes over a terminal connection so it
// can be played back later.
package recording

import (
	"io"
	"sync"
	"time"
)

// Stream identifies which direction a frame travelled.
type Stream int

const (
	// Output is data sent to the user's terminal.
	Output Stream = iota
	// Input is data typed by the user.
	Input
)

// Frame is a chunk of terminal traffic.
type Frame struct {
	At     time.Time
	Stream Stream
	Data   []byte
}

// Sink receives frames.
type Sink func(f *Frame) error

// Source adapts recording readers.
type Source interface {
	// Next fetches the next frame, returning io.EOF once the source is
	// exhausted.
	Next() (*Frame, error)
}

// Replay reads every frame in the source into the sink.
func Replay(src Source, sink Sink) error {
	for {
		frame, err := src.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if err := sink(frame); err != nil {
			return err
		}
	}
}

// NewRealTimePlayback delays frames so they're delivered with the spacing
// they were recorded with. If maxSleep > 0 it caps each pause.
func NewRealTimePlayback(maxSleep time.Duration, sleep func(time.Duration), next Sink) Sink {
	if sleep == nil {
		sleep = time.Sleep
	}

	var prev time.Time
	return func(f *Frame) error {
		if !prev.IsZero() {
			delay := f.At.Sub(prev)
			if maxSleep > 0 && delay > maxSleep {
				delay = maxSleep
			}
			if delay > 0 {
				sleep(delay)
			}
		}
		prev = f.At

		return next(f)
	}
}

// NewOutputWriter writes the output frames to w, dropping input.
func NewOutputWriter(w io.Writer) Sink {
	return func(f *Frame) error {
		if f.Stream != Output {
			return nil
		}
		_, err := w.Write(f.Data)
		return err
	}
}

// Recorder copies the traffic of wrapped readers and writers to a sink.
type Recorder struct {
	sink Sink
	now  func() time.Time

	mu  sync.Mutex
	err error
}

// NewRecorder creates a recorder, now defaults to time.Now.
func NewRecorder(sink Sink, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{sink: sink, now: now}
}

// Reader records everything read from r as input.
func (r *Recorder) Reader(rd io.Reader) io.Reader {
	return &recordingReader{r: r, wrapped: rd}
}

// Writer records everything written to w as output.
func (r *Recorder) Writer(w io.Writer) io.Writer {
	return &recordingWriter{r: r, wrapped: w}
}

// Err returns the first error the sink returned. Recording stops after it,
// the wrapped streams keep working.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

func (r *Recorder) record(stream Stream, data []byte) {
	if len(data) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}
	r.err = r.sink(&Frame{
		At:     r.now(),
		Stream: stream,
		Data:   append([]byte(nil), data...),
	})
}

type recordingReader struct {
	r       *Recorder
	wrapped io.Reader
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.wrapped.Read(p)
	rr.r.record(Input, p[:n])
	return n, err
}

type recordingWriter struct {
	r       *Recorder
	wrapped io.Writer
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	n, err := rw.wrapped.Write(p)
	rw.r.record(Output, p[:n])
	return n, err
}
