// Package record implements the fixed binary layout shared by primary
// input files and detected-particle output: seven float32 fields
// (position, direction, kinetic energy) followed by two int32 pixel
// coordinates, little-endian, no header and no padding.
package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/san-kum/ebsim/internal/core"
)

// Size is the encoded length of one record in bytes.
const Size = 7*4 + 2*4

var Order = binary.LittleEndian

type Record struct {
	Particle core.Particle
	Pixel    core.Pixel
}

// AppendTo appends the encoded record to b.
func (r Record) AppendTo(b []byte) []byte {
	p := &r.Particle
	for _, f := range [7]float32{p.Pos.X, p.Pos.Y, p.Pos.Z, p.Dir.X, p.Dir.Y, p.Dir.Z, p.KinEnergy} {
		b = Order.AppendUint32(b, math.Float32bits(f))
	}
	b = Order.AppendUint32(b, uint32(r.Pixel.X))
	return Order.AppendUint32(b, uint32(r.Pixel.Y))
}

// Decode reads one record from the first Size bytes of b.
func Decode(b []byte) Record {
	_ = b[Size-1]
	f := func(i int) float32 { return math.Float32frombits(Order.Uint32(b[4*i:])) }
	return Record{
		Particle: core.Particle{
			Pos:       core.Vec3{X: f(0), Y: f(1), Z: f(2)},
			Dir:       core.Vec3{X: f(3), Y: f(4), Z: f(5)},
			KinEnergy: f(6),
		},
		Pixel: core.Pixel{
			X: int32(Order.Uint32(b[28:])),
			Y: int32(Order.Uint32(b[32:])),
		},
	}
}

type Reader struct {
	r   *bufio.Reader
	buf [Size]byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 1024*Size)}
}

// Next returns io.EOF after the last complete record and
// io.ErrUnexpectedEOF if the input ends mid-record.
func (r *Reader) Next() (Record, error) {
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		return Record{}, err
	}
	return Decode(r.buf[:]), nil
}

func ReadAll(r io.Reader) ([]Record, error) {
	var out []Record
	rd := NewReader(r)
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func WriteAll(w io.Writer, recs []Record) error {
	buf := make([]byte, 0, len(recs)*Size)
	for _, r := range recs {
		buf = r.AppendTo(buf)
	}
	_, err := w.Write(buf)
	return err
}
