package physics

import (
	"math/rand/v2"

	"github.com/san-kum/ebsim/internal/compose"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/matfile"
	"github.com/san-kum/ebsim/internal/units"
)

// Inelastic removes energy at each event; the loss is exponentially
// distributed around Loss.
type Inelastic struct {
	MFP  float64 // nm
	Loss float64 // eV
}

func NewInelastic(mfp, loss float64) (*Inelastic, error) {
	if err := checkPositive("inelastic mean free path", mfp); err != nil {
		return nil, err
	}
	if err := checkPositive("inelastic energy loss", loss); err != nil {
		return nil, err
	}
	return &Inelastic{MFP: mfp, Loss: loss}, nil
}

// inelasticArgs are NewInelastic's arguments: mean free path (nm) and mean loss (eV).
type inelasticArgs = compose.Tuple2[float64, float64]

func inelasticLegacyArgs(l *matfile.Legacy) (inelasticArgs, error) {
	return inelasticArgs{V0: units.MetresToNM(l.Inelastic.Mfp), V1: units.JoulesToEV(l.Inelastic.Loss)}, nil
}

func inelasticStructuredArgs(s *matfile.Structured) (inelasticArgs, error) {
	mfp, err := s.PropertyIn("inelastic.mfp", units.Length)
	if err != nil {
		return inelasticArgs{}, err
	}
	loss, err := s.PropertyIn("inelastic.loss", units.Energy)
	if err != nil {
		return inelasticArgs{}, err
	}
	return inelasticArgs{V0: mfp, V1: loss}, nil
}

func NewInelasticLegacy(l *matfile.Legacy) (Mechanism, error) {
	return forward(NewInelastic, inelasticLegacyArgs, l)
}

func NewInelasticStructured(s *matfile.Structured) (Mechanism, error) {
	return forward(NewInelastic, inelasticStructuredArgs, s)
}

func (in *Inelastic) Name() string { return "inelastic" }

func (in *Inelastic) SampleDistance(_ *core.Particle, rng *rand.Rand) float32 {
	return sampleFreePath(in.MFP, rng)
}

func (in *Inelastic) Execute(p *core.Particle, rng *rand.Rand) {
	dE := float32(in.Loss * rng.ExpFloat64())
	if dE >= p.KinEnergy {
		p.KinEnergy = 0
		return
	}
	p.KinEnergy -= dE
}
