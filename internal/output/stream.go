// Package output serializes detected particles to the shared sink.
package output

import (
	"io"
	"os"
	"sync"
)

// StdoutName is the reserved destination name for the standard output stream.
const StdoutName = "stdout"

// Stream is the shared sink. Each Write call is delivered whole, so
// concurrent buffers never interleave bytes of a flush.
type Stream struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	name    string
	written int64
}

// Open creates (or truncates) the named file, or wraps stdout for StdoutName.
func Open(name string) (*Stream, error) {
	if name == StdoutName || name == "" {
		return &Stream{w: os.Stdout, name: StdoutName}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &Stream{w: f, closer: f, name: name}, nil
}

func NewStream(w io.Writer) *Stream {
	return &Stream{w: w, name: "writer"}
}

func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.w.Write(p)
	s.written += int64(n)
	return n, err
}

// Written returns the total bytes delivered so far.
func (s *Stream) Written() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

func (s *Stream) Name() string { return s.name }

// Close closes the underlying file. Stdout is left open.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
