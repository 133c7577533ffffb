package output

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return c.Buffer.Write(p)
}

func detected(i int) (core.Particle, core.Pixel) {
	return core.Particle{
		Pos:       core.Vec3{X: float32(i), Y: 1, Z: 2},
		Dir:       core.Vec3{Z: 1},
		KinEnergy: float32(100 + i),
	}, core.Pixel{X: int32(i), Y: int32(-i)}
}

func TestBuffer_RecordIntegrity(t *testing.T) {
	for _, capacity := range []int{0, record.Size, 3*record.Size + 5, 1 << 16} {
		sink := &countingWriter{}
		b := NewBuffer(sink, capacity)

		var want []byte
		for i := 0; i < 25; i++ {
			p, px := detected(i)
			require.NoError(t, b.AddRecord(p, px))
			want = record.Record{Particle: p, Pixel: px}.AppendTo(want)
		}
		require.NoError(t, b.Flush())

		assert.Equal(t, want, sink.Bytes(), "capacity %d", capacity)
		assert.Zero(t, b.Pending())
		assert.Zero(t, sink.Len()%record.Size)
	}
}

func TestBuffer_FlushesWhenFull(t *testing.T) {
	sink := &countingWriter{}
	b := NewBuffer(sink, 2*record.Size)

	for i := 0; i < 4; i++ {
		p, px := detected(i)
		require.NoError(t, b.AddRecord(p, px))
	}
	assert.Equal(t, 1, sink.writes)
	assert.Equal(t, 2*record.Size, b.Pending())

	require.NoError(t, b.Flush())
	assert.Equal(t, 2, sink.writes)
	require.NoError(t, b.Flush())
	assert.Equal(t, 2, sink.writes, "empty flush must not write")
}

func TestBuffer_AddOversized(t *testing.T) {
	sink := &countingWriter{}
	b := NewBuffer(sink, record.Size)
	require.NoError(t, b.Add([]byte{1, 2, 3}))
	require.NoError(t, b.Add(make([]byte, 2*record.Size)))
	assert.Equal(t, 3+2*record.Size, sink.Len())
	assert.Zero(t, b.Pending())
}

func TestStream_ConcurrentFlushesStayWhole(t *testing.T) {
	var sink bytes.Buffer
	s := NewStream(&sink)

	const workers, perWorker = 8, 500
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			b := NewBuffer(s, 7*record.Size)
			for i := 0; i < perWorker; i++ {
				p, px := detected(w*perWorker + i)
				assert.NoError(t, b.AddRecord(p, px))
			}
			assert.NoError(t, b.Flush())
		}(w)
	}
	wg.Wait()

	recs, err := record.ReadAll(&sink)
	require.NoError(t, err)
	require.Len(t, recs, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker*record.Size), s.Written())

	xs := make([]int, len(recs))
	for i, r := range recs {
		xs[i] = int(r.Pixel.X)
		p, px := detected(xs[i])
		assert.Equal(t, record.Record{Particle: p, Pixel: px}, r)
	}
	sort.Ints(xs)
	for i, x := range xs {
		require.Equal(t, i, x)
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(StdoutName)
	require.NoError(t, err)
	assert.Equal(t, StdoutName, s.Name())
	assert.NoError(t, s.Close())

	path := filepath.Join(t.TempDir(), "detected.bin")
	s, err = Open(path)
	require.NoError(t, err)
	_, err = s.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

type failingCloser struct{ err error }

func (f failingCloser) Close() error { return f.err }

func TestClose_ReportsError(t *testing.T) {
	errClose := errors.New("short write on flush")
	s := &Stream{w: io.Discard, closer: failingCloser{errClose}, name: "detected.bin"}
	assert.ErrorIs(t, s.Close(), errClose)
}
