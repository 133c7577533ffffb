package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/engine"
	"github.com/san-kum/ebsim/internal/geometry"
	"github.com/san-kum/ebsim/internal/material"
	"github.com/san-kum/ebsim/internal/physics"
	"github.com/san-kum/ebsim/internal/primaries"
	"github.com/san-kum/ebsim/internal/record"
	"github.com/san-kum/ebsim/internal/timing"
)

// scene is a material-0 cube with a detector plane above it.
func scene() []geometry.Triangle {
	tris := geometry.Cuboid(core.Vec3{X: -1, Y: -1, Z: -1}, core.Vec3{X: 1, Y: 1, Z: 1}, 0, core.Vacuum)
	return append(tris, geometry.Quad(
		core.Vec3{X: -5, Y: -5, Z: 10}, core.Vec3{X: 5, Y: -5, Z: 10},
		core.Vec3{X: 5, Y: 5, Z: 10}, core.Vec3{X: -5, Y: 5, Z: 10},
		core.Detector, core.Detector)...)
}

// upward returns n primaries in vacuum heading for the detector.
func upward(n int) *primaries.Set {
	s := &primaries.Set{}
	for i := 0; i < n; i++ {
		s.Particles = append(s.Particles, core.Particle{
			Pos:       core.Vec3{X: 0.3, Y: -0.2, Z: 5},
			Dir:       core.Vec3{Z: 1},
			KinEnergy: 100,
		})
		s.Pixels = append(s.Pixels, core.Pixel{X: int32(i % 10), Y: int32(i / 10)})
	}
	return s
}

func inputs(n int) *engine.Inputs {
	m, err := material.New(5)
	Expect(err).NotTo(HaveOccurred())
	return &engine.Inputs{
		Geometry:  geometry.Build(scene()),
		Materials: []*material.Material{m},
		Primaries: upward(n),
	}
}

var _ = Describe("Run", func() {
	var opts engine.Options

	BeforeEach(func() {
		opts = engine.DefaultOptions()
		opts.Threads = 1
	})

	It("detects every primary that travels straight to the detector", func() {
		var (
			mu    sync.Mutex
			calls [][2]int
		)
		opts.Progress = func(remaining, total int) {
			mu.Lock()
			calls = append(calls, [2]int{remaining, total})
			mu.Unlock()
		}

		var out bytes.Buffer
		sum, err := engine.Run(context.Background(), inputs(100), &out, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(sum.Primaries).To(Equal(100))
		Expect(sum.Stats.Detected).To(BeEquivalentTo(100))
		Expect(sum.Stats.Terminated).To(BeZero())
		Expect(out.Len()).To(Equal(100 * record.Size))
		Expect(calls).NotTo(BeEmpty())
		Expect(calls[len(calls)-1]).To(Equal([2]int{0, 100}))

		recs, err := record.ReadAll(&out)
		Expect(err).NotTo(HaveOccurred())
		seen := map[core.Pixel]bool{}
		for _, r := range recs {
			Expect(r.Particle.Pos.Z).To(BeNumerically("~", 10, 1e-4))
			Expect(r.Particle.KinEnergy).To(BeNumerically("==", 100))
			seen[r.Pixel] = true
		}
		Expect(seen).To(HaveLen(100))
	})

	It("re-offers primaries a small driver could not admit", func() {
		opts.Capacity = 2
		opts.Batch = 5

		var out bytes.Buffer
		sum, err := engine.Run(context.Background(), inputs(5), &out, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Stats.Admitted).To(BeEquivalentTo(5))
		Expect(sum.Stats.Detected).To(BeEquivalentTo(5))
		Expect(out.Len()).To(Equal(5 * record.Size))
	})

	It("writes whole records from many workers", func() {
		opts.Threads = 4
		opts.BufferRecords = 3

		var out bytes.Buffer
		sum, err := engine.Run(context.Background(), inputs(1000), &syncWriter{w: &out}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Threads).To(Equal(4))
		Expect(out.Len()).To(Equal(1000 * record.Size))

		recs, err := record.ReadAll(&out)
		Expect(err).NotTo(HaveOccurred())
		for _, r := range recs {
			Expect(r.Particle.Dir).To(Equal(core.Vec3{Z: 1}))
		}
	})

	It("refuses to run without primaries", func() {
		in := inputs(0)
		_, err := engine.Run(context.Background(), in, io.Discard, opts)
		Expect(err).To(MatchError(core.ErrNoPrimaries))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sum, err := engine.Run(ctx, inputs(50), io.Discard, opts)
		Expect(err).To(MatchError(context.Canceled))
		Expect(sum.Stats.Admitted).To(BeZero())
	})

	It("is reproducible for a fixed seed", func() {
		in := inputs(0)
		m, err := material.New(1, mustElastic(0.5, 0.2))
		Expect(err).NotTo(HaveOccurred())
		in.Geometry = geometry.Build(geometry.Cuboid(
			core.Vec3{X: -1, Y: -1, Z: -1}, core.Vec3{X: 1, Y: 1, Z: 1}, 0, core.Vacuum))
		in.Materials = []*material.Material{m}
		in.Primaries = &primaries.Set{
			Particles: []core.Particle{{Pos: core.Vec3{Z: 5}, Dir: core.Vec3{Z: -1}, KinEnergy: 100}},
			Pixels:    []core.Pixel{{}},
		}

		run := func() []byte {
			var out bytes.Buffer
			_, err := engine.Run(context.Background(), in, &out, opts)
			Expect(err).NotTo(HaveOccurred())
			return out.Bytes()
		}
		Expect(run()).To(Equal(run()))
	})
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name string, fn func(w io.Writer) error) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(fn(f)).To(Succeed())
		return path
	}
	matfile := func(name string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte("[material]\nname = silicon\nbarrier = 8.0109e-19\n"), 0o644)).To(Succeed())
		return path
	}
	geom := func() string {
		return write("scene.tri", func(w io.Writer) error { return geometry.Write(w, scene()) })
	}
	prims := func(n int) string {
		return write("beam.pri", func(w io.Writer) error {
			s := upward(n)
			recs := make([]record.Record, n)
			for i := range recs {
				recs[i] = record.Record{Particle: s.Particles[i], Pixel: s.Pixels[i]}
			}
			return record.WriteAll(w, recs)
		})
	}

	It("loads every input and times each phase", func() {
		timer := timing.New()
		var diag bytes.Buffer
		in, err := engine.Load(engine.Paths{
			Geometry:  geom(),
			Primaries: prims(10),
			Materials: []string{matfile("si.mat")},
		}, physics.DefaultKinds(), timer, &diag)
		Expect(err).NotTo(HaveOccurred())

		Expect(in.Geometry.Len()).To(Equal(14))
		Expect(in.Primaries.Len()).To(Equal(10))
		Expect(in.Materials[0].Barrier()).To(BeNumerically("~", 5, 1e-3))
		Expect(diag.String()).To(BeEmpty())

		var labels []string
		for _, e := range timer.Entries() {
			labels = append(labels, e.Label)
		}
		Expect(labels).To(Equal([]string{
			"Loading triangles",
			"Building acceleration structure",
			"Loading primary electrons",
			"Loading materials",
		}))
	})

	It("reports an empty primaries file with usage", func() {
		_, err := engine.Load(engine.Paths{
			Geometry:  geom(),
			Primaries: prims(0),
			Materials: []string{matfile("si.mat")},
		}, physics.DefaultKinds(), timing.New(), io.Discard)
		Expect(err).To(MatchError(core.ErrNoPrimaries))

		var cerr *core.ConfigError
		Expect(errors.As(err, &cerr)).To(BeTrue())
		Expect(cerr.Usage).To(BeTrue())
	})

	It("requires a material for every index the geometry uses", func() {
		_, err := engine.Load(engine.Paths{
			Geometry:  geom(),
			Primaries: prims(3),
		}, physics.DefaultKinds(), timing.New(), io.Discard)
		Expect(err).To(MatchError(core.ErrNotEnoughMaterials))
	})

	It("warns about unused materials", func() {
		var diag bytes.Buffer
		in, err := engine.Load(engine.Paths{
			Geometry:  geom(),
			Primaries: prims(3),
			Materials: []string{matfile("a.mat"), matfile("b.mat")},
		}, physics.DefaultKinds(), timing.New(), &diag)
		Expect(err).NotTo(HaveOccurred())
		Expect(in.Materials).To(HaveLen(2))
		Expect(diag.String()).To(ContainSubstring("too many materials"))
	})
})

func mustElastic(mfp, g float64) physics.Mechanism {
	e, err := physics.NewElastic(mfp, g)
	Expect(err).NotTo(HaveOccurred())
	return e
}

// syncWriter stands in for the mutex-guarded output stream.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
