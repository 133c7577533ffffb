package core

import (
	"fmt"
	"math"
)

// Vec3 uses float32 components, matching the on-disk record precision.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Mul(1 / n)
}

// Axis returns component i (0=x, 1=y, 2=z).
func (v Vec3) Axis(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func Min3(a, b Vec3) Vec3 {
	return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

func Max3(a, b Vec3) Vec3 {
	return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

func (v Vec3) IsValid() bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("{%g, %g, %g}", v.X, v.Y, v.Z)
}

// Particle is mutated in place by each simulation step.
type Particle struct {
	Pos       Vec3
	Dir       Vec3
	KinEnergy float32
}

// Tag is the index of the originating primary.
type Tag = uint32

type Pixel struct {
	X, Y int32
}

// Special material codes carried by triangles in place of a material index.
const (
	Mirror     = -122
	Vacuum     = -123
	Detector   = -126
	Terminator = -127
)

// IsMaterial reports whether code refers to a loaded material rather than a special surface.
func IsMaterial(code int) bool { return code >= 0 }

// Fate is the state of one slot in a driver's working set.
type Fate uint8

const (
	Empty Fate = iota
	InFlight
	Detected
	Terminated
)

func (f Fate) String() string {
	switch f {
	case Empty:
		return "empty"
	case InFlight:
		return "in-flight"
	case Detected:
		return "detected"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("fate(%d)", uint8(f))
}
