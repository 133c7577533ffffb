package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/ebsim/internal/record"
)

type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize returns the population statistics of data. An empty slice
// gives the zero Stats.
func Summarize(data []float64) Stats {
	n := len(data)
	if n == 0 {
		return Stats{}
	}
	mean := floats.Sum(data) / float64(n)
	dev := make([]float64, n)
	copy(dev, data)
	floats.AddConst(-mean, dev)
	return Stats{
		N:      n,
		Mean:   mean,
		StdDev: math.Sqrt(floats.Dot(dev, dev) / float64(n)),
		Min:    floats.Min(data),
		Max:    floats.Max(data),
	}
}

// Histogram bins data into n equal-width bins over [lo, hi]. Values
// outside the range are ignored; hi falls into the last bin.
func Histogram(data []float64, lo, hi float64, n int) []float64 {
	counts := make([]float64, n)
	if n == 0 || !(hi > lo) {
		if n > 0 {
			counts[0] = float64(len(data))
		}
		return counts
	}
	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	for _, v := range data {
		if v < lo || v > hi {
			continue
		}
		i := floats.Within(dividers, v)
		if i < 0 {
			i = n - 1
		}
		counts[i]++
	}
	return counts
}

type Spectrum struct {
	Stats  Stats
	Edges  []float64 // len(Counts)+1 bin edges in eV
	Counts []float64
}

// EnergySpectrum histograms the kinetic energy of recs into bins bins.
func EnergySpectrum(recs []record.Record, bins int) Spectrum {
	energies := make([]float64, len(recs))
	for i, r := range recs {
		energies[i] = float64(r.Particle.KinEnergy)
	}
	st := Summarize(energies)
	edges := make([]float64, bins+1)
	if bins > 0 {
		floats.Span(edges, st.Min, st.Max)
	}
	return Spectrum{
		Stats:  st,
		Edges:  edges,
		Counts: Histogram(energies, st.Min, st.Max, bins),
	}
}
