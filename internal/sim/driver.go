// Package sim implements the per-worker simulation driver: a bounded
// working set of particles advanced one scattering event at a time.
package sim

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/geometry"
)

type slot struct {
	p      core.Particle
	tag    core.Tag
	fate   core.Fate
	region int // material index or core.Vacuum
	ignore int // triangle the particle is resting on, or -1
}

// Driver is owned by a single goroutine. Geometry and materials are shared
// read-only with other drivers.
type Driver struct {
	geom      Geometry
	materials []Material
	threshold float32
	rng       *rand.Rand

	slots []slot
	free  []int32 // stack of empty slot indices
	hi    int     // slots at or above hi are empty
	stats Stats
}

func New(geom Geometry, materials []Material, cfg Config) *Driver {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	d := &Driver{
		geom:      geom,
		materials: materials,
		threshold: cfg.EnergyThreshold,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		slots:     make([]slot, capacity),
		free:      make([]int32, capacity),
	}
	for i := range d.free {
		d.free[i] = int32(capacity - 1 - i)
	}
	return d
}

func (d *Driver) Capacity() int { return len(d.slots) }

// Free returns the number of slots available to Push.
func (d *Driver) Free() int { return len(d.free) }

func (d *Driver) Stats() Stats { return d.stats }

// Count returns how many slots currently hold a particle in state f.
func (d *Driver) Count(f core.Fate) int {
	n := 0
	for i := range d.slots {
		if d.slots[i].fate == f {
			n++
		}
	}
	return n
}

// Push admits as many of the given particles as there are free slots and
// returns that count. Particles start in vacuum. The caller must re-offer
// the rest.
func (d *Driver) Push(particles []core.Particle, tags []core.Tag) int {
	if len(particles) != len(tags) {
		panic("sim: particle and tag counts differ")
	}
	n := min(len(particles), len(d.free))
	for i := 0; i < n; i++ {
		top := len(d.free) - 1
		idx := d.free[top]
		d.free = d.free[:top]
		d.hi = max(d.hi, int(idx)+1)
		d.slots[idx] = slot{
			p:      particles[i],
			tag:    tags[i],
			fate:   core.InFlight,
			region: core.Vacuum,
			ignore: -1,
		}
	}
	d.stats.Admitted += uint64(n)
	return n
}

// SimulateToEnd advances every in-flight particle until it is detected or
// terminated.
func (d *Driver) SimulateToEnd() {
	for i := range d.slots[:d.hi] {
		s := &d.slots[i]
		for s.fate == core.InFlight {
			d.step(s)
		}
	}
}

// FlushDetected calls visit once for each detected particle, in slot
// order, then evicts all detected and terminated particles. It returns
// the number of particles visited.
func (d *Driver) FlushDetected(visit func(p core.Particle, tag core.Tag)) int {
	n, last := 0, -1
	mark := len(d.free)
	for i := range d.slots[:d.hi] {
		s := &d.slots[i]
		switch s.fate {
		case core.Detected:
			visit(s.p, s.tag)
			n++
		case core.Terminated:
		case core.InFlight:
			last = i
			continue
		default:
			continue
		}
		s.fate = core.Empty
		d.free = append(d.free, int32(i))
	}
	slices.Reverse(d.free[mark:])
	d.hi = last + 1
	return n
}

func (d *Driver) step(s *slot) {
	d.stats.Steps++
	p := &s.p
	if p.KinEnergy < d.threshold {
		d.finish(s, core.Terminated)
		return
	}

	dist, mech := float32(math.Inf(1)), -1
	if core.IsMaterial(s.region) {
		dist, mech = d.materials[s.region].SampleEvent(p, d.rng)
	}

	hit, ok := d.geom.Intersect(p.Pos, p.Dir, dist, s.ignore)
	if !ok {
		if mech < 0 {
			// Nothing ahead and nothing to scatter off: left the domain.
			d.finish(s, core.Terminated)
			return
		}
		p.Pos = p.Pos.Add(p.Dir.Mul(dist))
		s.ignore = -1
		if !d.geom.Contains(p.Pos) {
			d.finish(s, core.Terminated)
			return
		}
		d.materials[s.region].Execute(mech, p, d.rng)
		if p.KinEnergy < d.threshold {
			d.finish(s, core.Terminated)
		}
		return
	}

	p.Pos = p.Pos.Add(p.Dir.Mul(hit.Distance))
	s.ignore = hit.Triangle
	d.cross(s, hit)
}

// cross handles arrival at an interface.
func (d *Driver) cross(s *slot, hit geometry.Hit) {
	p := &s.p
	switch {
	case hit.To == core.Detector:
		d.finish(s, core.Detected)
	case hit.To == core.Terminator:
		d.finish(s, core.Terminated)
	case hit.To == core.Mirror:
		p.Dir = p.Dir.Sub(hit.Normal.Mul(2 * p.Dir.Dot(hit.Normal))).Normalize()
	case hit.To == core.Vacuum:
		if !core.IsMaterial(s.region) {
			return
		}
		if d.materials[s.region].CanReachVacuum(p.KinEnergy) {
			d.finish(s, core.Detected)
		} else {
			d.finish(s, core.Terminated)
		}
	case hit.To >= 0 && hit.To < len(d.materials):
		s.region = hit.To
	default:
		d.finish(s, core.Terminated)
	}
}

func (d *Driver) finish(s *slot, f core.Fate) {
	s.fate = f
	if f == core.Detected {
		d.stats.Detected++
	} else {
		d.stats.Terminated++
	}
}
