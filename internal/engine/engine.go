// Package engine runs a simulation: it fans primaries out to one driver
// per worker and collects detected electrons into a shared sink.
package engine

import (
	"context"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/output"
	"github.com/san-kum/ebsim/internal/record"
	"github.com/san-kum/ebsim/internal/sim"
	"github.com/san-kum/ebsim/internal/workpool"
)

const DefaultSeed uint64 = 0x14f8214e78c7e39b

type Options struct {
	Threads         int // 0 means runtime.NumCPU()
	Capacity        int // driver working-set size
	Batch           int // primaries claimed per cycle
	BufferRecords   int
	EnergyThreshold float32
	Seed            uint64

	// Progress is called every ProgressInterval with the number of
	// unclaimed primaries, and once more after all workers finish.
	// Claimed primaries may still be in flight, so this tracks dispatch
	// rather than completion.
	Progress         func(remaining, total int)
	ProgressInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		Capacity:         sim.DefaultCapacity,
		Batch:            1,
		BufferRecords:    1024,
		Seed:             DefaultSeed,
		ProgressInterval: time.Second,
	}
}

type Summary struct {
	Primaries int
	Threads   int
	Stats     sim.Stats
	Elapsed   time.Duration
}

// Run simulates every primary in in and writes one record per detected
// electron to sink. Records from different workers interleave in no
// particular order. Cancelling ctx stops workers after their current
// cycle; the partial summary is returned with ctx's error.
func Run(ctx context.Context, in *Inputs, sink io.Writer, opts Options) (Summary, error) {
	if in.Primaries == nil || in.Primaries.Len() == 0 {
		return Summary{}, core.ErrNoPrimaries
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	batch := max(opts.Batch, 1)
	bufBytes := max(opts.BufferRecords, 1) * record.Size

	mats := make([]sim.Material, len(in.Materials))
	for i, m := range in.Materials {
		mats[i] = m
	}
	pool := workpool.New(in.Primaries.Particles, in.Primaries.Tags())
	pixels := in.Primaries.Pixels

	master := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	drivers := make([]*sim.Driver, threads)
	for i := range drivers {
		drivers[i] = sim.New(in.Geometry, mats, sim.Config{
			Capacity:        opts.Capacity,
			EnergyThreshold: opts.EnergyThreshold,
			Seed:            master.Uint64(),
		})
	}

	start := time.Now()
	stop := make(chan struct{})
	var progress sync.WaitGroup
	if opts.Progress != nil && opts.ProgressInterval > 0 {
		progress.Add(1)
		go func() {
			defer progress.Done()
			t := time.NewTicker(opts.ProgressInterval)
			defer t.Stop()
			for {
				select {
				case <-stop:
					return
				case <-t.C:
					opts.Progress(pool.Remaining(), pool.Total())
				}
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range drivers {
		g.Go(func() error {
			return work(gctx, d, pool, pixels, output.NewBuffer(sink, bufBytes), batch)
		})
	}
	err := g.Wait()
	close(stop)
	progress.Wait()
	if opts.Progress != nil {
		opts.Progress(pool.Remaining(), pool.Total())
	}

	sum := Summary{Primaries: pool.Total(), Threads: threads, Elapsed: time.Since(start)}
	for _, d := range drivers {
		sum.Stats.Add(d.Stats())
	}
	if err == nil {
		err = ctx.Err()
	}
	return sum, err
}

// work is one worker's loop: claim, admit, simulate, flush.
func work(ctx context.Context, d *sim.Driver, pool *workpool.Pool, pixels []core.Pixel, buf *output.Buffer, batch int) error {
	var werr error
	visit := func(p core.Particle, tag core.Tag) {
		if werr == nil {
			werr = buf.AddRecord(p, pixels[tag])
		}
	}

	for ctx.Err() == nil && werr == nil {
		b := pool.Claim(batch)
		if b.Len() == 0 {
			break
		}
		ps, tags := b.Particles, b.Tags
		for len(ps) > 0 {
			n := d.Push(ps, tags)
			ps, tags = ps[n:], tags[n:]
			d.SimulateToEnd()
			d.FlushDetected(visit)
		}
	}
	if err := buf.Flush(); werr == nil {
		werr = err
	}
	return werr
}
