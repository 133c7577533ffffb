package physics

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/san-kum/ebsim/internal/compose"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/matfile"
)

// Mechanism is one scattering process inside a material.
type Mechanism interface {
	Name() string
	// SampleDistance returns the free path (nm) to the next event, or +Inf.
	SampleDistance(p *core.Particle, rng *rand.Rand) float32
	// Execute applies one event at the particle's current position.
	Execute(p *core.Particle, rng *rand.Rand)
}

// Kind pairs a mechanism name with its creation function for each file format.
type Kind struct {
	Name       string
	Legacy     compose.Constructor[*matfile.Legacy, Mechanism]
	Structured compose.Constructor[*matfile.Structured, Mechanism]
}

var (
	ElasticKind   = Kind{"elastic", NewElasticLegacy, NewElasticStructured}
	InelasticKind = Kind{"inelastic", NewInelasticLegacy, NewInelasticStructured}
)

var registry = map[string]Kind{
	ElasticKind.Name:   ElasticKind,
	InelasticKind.Name: InelasticKind,
}

// DefaultKinds is the mechanism list used when none is configured.
func DefaultKinds() []Kind {
	return []Kind{ElasticKind, InelasticKind}
}

// LookupKinds resolves mechanism names, preserving order.
func LookupKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		k, ok := registry[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("physics: unknown mechanism %q (available: %v)", n, KindNames())
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func KindNames() []string {
	return []string{ElasticKind.Name, InelasticKind.Name}
}

// forward reads a mechanism's constructor arguments from src, in either
// file format, and passes them on to ctor.
func forward[S any, M Mechanism, A, B any](ctor func(A, B) (M, error), args func(S) (compose.Tuple2[A, B], error), src S) (Mechanism, error) {
	t, err := args(src)
	if err != nil {
		return nil, err
	}
	m, err := compose.MakeFrom2(ctor, t)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// sampleFreePath draws an exponential distance with mean mfp.
func sampleFreePath(mfp float64, rng *rand.Rand) float32 {
	if mfp <= 0 || math.IsInf(mfp, 1) {
		return float32(math.Inf(1))
	}
	return float32(mfp * rng.ExpFloat64())
}

func checkPositive(what string, v float64) error {
	if v < 0 || math.IsNaN(v) {
		return fmt.Errorf("physics: %s must be non-negative, got %g", what, v)
	}
	return nil
}
