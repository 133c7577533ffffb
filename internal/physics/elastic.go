package physics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/ebsim/internal/compose"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/matfile"
	"github.com/san-kum/ebsim/internal/units"
)

// Elastic deflects the particle without energy loss. The polar angle
// follows a Henyey-Greenstein distribution with anisotropy G.
type Elastic struct {
	MFP float64 // nm; zero disables the mechanism
	G   float64 // in (-1, 1)
}

func NewElastic(mfp, g float64) (*Elastic, error) {
	if err := checkPositive("elastic mean free path", mfp); err != nil {
		return nil, err
	}
	if g <= -1 || g >= 1 {
		return nil, fmt.Errorf("physics: anisotropy must be in (-1, 1), got %g", g)
	}
	return &Elastic{MFP: mfp, G: g}, nil
}

// elasticArgs are NewElastic's arguments: mean free path (nm) and anisotropy.
type elasticArgs = compose.Tuple2[float64, float64]

func elasticLegacyArgs(l *matfile.Legacy) (elasticArgs, error) {
	return elasticArgs{V0: units.MetresToNM(l.Elastic.Mfp), V1: l.Elastic.Anisotropy}, nil
}

func elasticStructuredArgs(s *matfile.Structured) (elasticArgs, error) {
	mfp, err := s.PropertyIn("elastic.mfp", units.Length)
	if err != nil {
		return elasticArgs{}, err
	}
	g := 0.0
	if s.Has("elastic.anisotropy") {
		if g, err = s.PropertyIn("elastic.anisotropy", units.Dimensionless); err != nil {
			return elasticArgs{}, err
		}
	}
	return elasticArgs{V0: mfp, V1: g}, nil
}

func NewElasticLegacy(l *matfile.Legacy) (Mechanism, error) {
	return forward(NewElastic, elasticLegacyArgs, l)
}

func NewElasticStructured(s *matfile.Structured) (Mechanism, error) {
	return forward(NewElastic, elasticStructuredArgs, s)
}

func (e *Elastic) Name() string { return "elastic" }

func (e *Elastic) SampleDistance(_ *core.Particle, rng *rand.Rand) float32 {
	return sampleFreePath(e.MFP, rng)
}

func (e *Elastic) Execute(p *core.Particle, rng *rand.Rand) {
	cosTheta := henyeyGreenstein(e.G, rng.Float64())
	phi := 2 * math.Pi * rng.Float64()
	p.Dir = Deflect(p.Dir, cosTheta, phi)
}

func henyeyGreenstein(g, u float64) float64 {
	if math.Abs(g) < 1e-6 {
		return 2*u - 1
	}
	s := (1 - g*g) / (1 - g + 2*g*u)
	c := (1 + g*g - s*s) / (2 * g)
	return math.Max(-1, math.Min(1, c))
}

// Deflect rotates unit vector dir by polar angle acos(cosTheta) and azimuth phi.
func Deflect(dir core.Vec3, cosTheta, phi float64) core.Vec3 {
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	sinPhi, cosPhi := math.Sincos(phi)

	ux, uy, uz := float64(dir.X), float64(dir.Y), float64(dir.Z)
	var nx, ny, nz float64
	if math.Abs(uz) > 0.99999 {
		nx = sinTheta * cosPhi
		ny = sinTheta * sinPhi
		nz = cosTheta * math.Copysign(1, uz)
	} else {
		k := math.Sqrt(1 - uz*uz)
		nx = sinTheta*(ux*uz*cosPhi-uy*sinPhi)/k + ux*cosTheta
		ny = sinTheta*(uy*uz*cosPhi+ux*sinPhi)/k + uy*cosTheta
		nz = -sinTheta*cosPhi*k + uz*cosTheta
	}
	return core.Vec3{X: float32(nx), Y: float32(ny), Z: float32(nz)}.Normalize()
}
