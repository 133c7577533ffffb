package sim

import (
	"math/rand/v2"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/geometry"
)

// Geometry finds the next interface along a ray and bounds the domain.
// Implementations must be safe for concurrent reads.
type Geometry interface {
	Intersect(pos, dir core.Vec3, maxDist float32, ignore int) (geometry.Hit, bool)
	Contains(p core.Vec3) bool
}

// Material is the per-region physics a driver consults. Implementations
// must be immutable while drivers run.
type Material interface {
	CanReachVacuum(kinEnergy float32) bool
	SampleEvent(p *core.Particle, rng *rand.Rand) (float32, int)
	Execute(mech int, p *core.Particle, rng *rand.Rand)
}

type Config struct {
	Capacity        int
	EnergyThreshold float32 // eV; particles below are terminated
	Seed            uint64
}

const DefaultCapacity = 1 << 16

func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity}
}

// Stats counts particle fates over a driver's lifetime.
type Stats struct {
	Admitted   uint64
	Detected   uint64
	Terminated uint64
	Steps      uint64
}

func (s *Stats) Add(o Stats) {
	s.Admitted += o.Admitted
	s.Detected += o.Detected
	s.Terminated += o.Terminated
	s.Steps += o.Steps
}
