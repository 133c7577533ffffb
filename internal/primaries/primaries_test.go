package primaries

import (
	"bytes"
	"math"
	"testing"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/record"
)

func TestRead_FiltersAndNormalizes(t *testing.T) {
	recs := []record.Record{
		{Particle: core.Particle{Pos: core.Vec3{Z: 1}, Dir: core.Vec3{Z: -2}, KinEnergy: 500}, Pixel: core.Pixel{X: 1, Y: 2}},
		{Particle: core.Particle{Pos: core.Vec3{Z: 50}, Dir: core.Vec3{Z: -1}, KinEnergy: 500}, Pixel: core.Pixel{X: 3, Y: 4}},
		{Particle: core.Particle{Pos: core.Vec3{X: 2}, Dir: core.Vec3{}, KinEnergy: 500}},
		{Particle: core.Particle{Pos: core.Vec3{X: -3, Y: 3}, Dir: core.Vec3{X: 1}, KinEnergy: 800}, Pixel: core.Pixel{X: 5, Y: 6}},
	}
	var buf bytes.Buffer
	if err := record.WriteAll(&buf, recs); err != nil {
		t.Fatal(err)
	}

	s, err := Read(&buf, core.Vec3{X: -10, Y: -10, Z: -10}, core.Vec3{X: 10, Y: 10, Z: 10})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if s.Len() != 2 || s.Dropped != 2 {
		t.Fatalf("expected 2 kept and 2 dropped, got %d and %d", s.Len(), s.Dropped)
	}
	if s.Particles[0].Dir != (core.Vec3{Z: -1}) {
		t.Errorf("direction not normalized: %v", s.Particles[0].Dir)
	}
	if s.Pixels[1] != (core.Pixel{X: 5, Y: 6}) {
		t.Errorf("pixel mismatch: %v", s.Pixels[1])
	}

	tags := s.Tags()
	for i, tag := range tags {
		if tag != core.Tag(i) {
			t.Errorf("tag %d = %d", i, tag)
		}
	}
}

func TestRead_Empty(t *testing.T) {
	inf := float32(math.Inf(1))
	s, err := Read(bytes.NewReader(nil), core.Vec3{X: -inf, Y: -inf, Z: -inf}, core.Vec3{X: inf, Y: inf, Z: inf})
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("expected no primaries, got %d", s.Len())
	}
}
