// Package primaries loads the initial electrons of a run.
package primaries

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/record"
)

// Set holds primaries and their pixels; index i of each slice belongs to tag i.
type Set struct {
	Particles []core.Particle
	Pixels    []core.Pixel
	Dropped   int // primaries outside the geometry bounds
}

func (s *Set) Len() int { return len(s.Particles) }

// Tags returns 0..n-1: each primary is tagged with its own index.
func (s *Set) Tags() []core.Tag {
	tags := make([]core.Tag, len(s.Particles))
	for i := range tags {
		tags[i] = core.Tag(i)
	}
	return tags
}

// Load reads a .pri file and keeps only primaries whose position lies in
// [lo, hi]. Directions are normalized.
func Load(path string, lo, hi core.Vec3) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("primaries: %s: %w", path, err)
	}
	return s, nil
}

func Read(r io.Reader, lo, hi core.Vec3) (*Set, error) {
	s := &Set{}
	rd := record.NewReader(r)
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return nil, err
		}
		p := rec.Particle
		if !inside(p.Pos, lo, hi) || !p.Dir.IsValid() || p.Dir.Norm() == 0 {
			s.Dropped++
			continue
		}
		p.Dir = p.Dir.Normalize()
		s.Particles = append(s.Particles, p)
		s.Pixels = append(s.Pixels, rec.Pixel)
	}
}

func inside(p, lo, hi core.Vec3) bool {
	return p.IsValid() &&
		p.X >= lo.X && p.Y >= lo.Y && p.Z >= lo.Z &&
		p.X <= hi.X && p.Y <= hi.Y && p.Z <= hi.Z
}
