// Package material composes scattering mechanisms into an immutable
// material that every simulation driver shares.
package material

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/san-kum/ebsim/internal/compose"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/matfile"
	"github.com/san-kum/ebsim/internal/physics"
	"github.com/san-kum/ebsim/internal/units"
)

var ErrDuplicateMechanism = errors.New("material: mechanism type listed twice")

// Material is read-only after construction.
type Material struct {
	name    string
	mechs   []physics.Mechanism
	barrier float32 // eV
}

// New builds a material from already constructed mechanisms. Each
// mechanism type may appear at most once.
func New(barrier float32, mechs ...physics.Mechanism) (*Material, error) {
	types := compose.TypesOf(mechs...)
	if k := types.FirstRepeat(); k >= 0 {
		t, _ := types.At(k)
		return nil, fmt.Errorf("%w: %v at position %d", ErrDuplicateMechanism, t, k)
	}
	if barrier < 0 || math.IsNaN(float64(barrier)) {
		return nil, fmt.Errorf("material: invalid barrier %g eV", barrier)
	}
	list := make([]physics.Mechanism, len(mechs))
	copy(list, mechs)
	return &Material{mechs: list, barrier: barrier}, nil
}

// FromLegacy builds a material from a legacy record. The barrier is stored
// in joules and converted to eV.
func FromLegacy(l *matfile.Legacy, kinds []physics.Kind) (*Material, error) {
	ctors := make([]compose.Constructor[*matfile.Legacy, physics.Mechanism], len(kinds))
	for i, k := range kinds {
		ctors[i] = k.Legacy
	}
	mechs, err := compose.Assemble(l, ctors...)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", l.Material.Name, err)
	}
	m, err := New(float32(units.JoulesToEV(l.Material.Barrier)), mechs...)
	if err != nil {
		return nil, err
	}
	m.name = l.Material.Name
	return m, nil
}

// FromStructured builds a material from a property container; "barrier" is required.
func FromStructured(s *matfile.Structured, kinds []physics.Kind) (*Material, error) {
	barrier, err := s.PropertyIn("barrier", units.Energy)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", s.Name, err)
	}
	ctors := make([]compose.Constructor[*matfile.Structured, physics.Mechanism], len(kinds))
	for i, k := range kinds {
		ctors[i] = k.Structured
	}
	mechs, err := compose.Assemble(s, ctors...)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", s.Name, err)
	}
	m, err := New(float32(barrier), mechs...)
	if err != nil {
		return nil, err
	}
	m.name = s.Name
	return m, nil
}

// IsLegacy reports whether filename names a legacy .mat file. Legacy
// names end in 't'; everything else is read as a structured file.
func IsLegacy(filename string) bool {
	return strings.HasSuffix(filename, "t")
}

// Load reads a material file of either format.
func Load(filename string, kinds []physics.Kind) (*Material, error) {
	if IsLegacy(filename) {
		l, err := matfile.ReadLegacy(filename)
		if err != nil {
			return nil, err
		}
		return FromLegacy(l, kinds)
	}
	s, err := matfile.ReadStructured(filename)
	if err != nil {
		return nil, err
	}
	return FromStructured(s, kinds)
}

func (m *Material) Name() string { return m.name }

// Barrier returns the vacuum-escape energy in eV.
func (m *Material) Barrier() float32 { return m.barrier }

func (m *Material) Mechanisms() []physics.Mechanism { return m.mechs }

// CanReachVacuum reports whether a particle with kinetic energy e can leave
// the material through a free surface.
func (m *Material) CanReachVacuum(e float32) bool {
	return e >= m.barrier
}

// SampleEvent asks every mechanism for a free path and returns the
// shortest one with its mechanism index. The index is -1 when no
// mechanism will ever fire.
func (m *Material) SampleEvent(p *core.Particle, rng *rand.Rand) (float32, int) {
	best, idx := float32(math.Inf(1)), -1
	for i, mech := range m.mechs {
		if d := mech.SampleDistance(p, rng); d < best {
			best, idx = d, i
		}
	}
	return best, idx
}

// Execute applies mechanism i to p.
func (m *Material) Execute(i int, p *core.Particle, rng *rand.Rand) {
	m.mechs[i].Execute(p, rng)
}
