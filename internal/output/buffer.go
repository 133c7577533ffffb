package output

import (
	"io"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/record"
)

// Buffer accumulates records for one worker and writes them to the sink
// in whole chunks. It is not safe for concurrent use.
type Buffer struct {
	sink io.Writer
	buf  []byte
}

// NewBuffer returns a buffer holding up to capacity bytes before flushing.
func NewBuffer(sink io.Writer, capacity int) *Buffer {
	return &Buffer{sink: sink, buf: make([]byte, 0, max(capacity, record.Size))}
}

// Add appends p verbatim, flushing first if it would not fit.
func (b *Buffer) Add(p []byte) error {
	if len(b.buf)+len(p) > cap(b.buf) {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	if len(p) > cap(b.buf) {
		_, err := b.sink.Write(p)
		return err
	}
	b.buf = append(b.buf, p...)
	return nil
}

// AddRecord encodes a detected particle and its pixel.
func (b *Buffer) AddRecord(p core.Particle, px core.Pixel) error {
	if len(b.buf)+record.Size > cap(b.buf) {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	b.buf = record.Record{Particle: p, Pixel: px}.AppendTo(b.buf)
	return nil
}

// Flush writes any pending bytes to the sink and empties the buffer.
func (b *Buffer) Flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	_, err := b.sink.Write(b.buf)
	b.buf = b.buf[:0]
	return err
}

// Pending returns the number of bytes not yet written.
func (b *Buffer) Pending() int { return len(b.buf) }
