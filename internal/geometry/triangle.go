// Package geometry holds the triangle scene and the bounding volume
// hierarchy used to find the next interface along a particle's path.
package geometry

import (
	"math"

	"github.com/san-kum/ebsim/internal/core"
)

// Triangle separates two regions. The normal (B-A)x(C-A) points into the
// MaterialOut side. Material codes are either a material index or one of
// the special core codes (Vacuum, Detector, Terminator, Mirror).
type Triangle struct {
	A, B, C     core.Vec3
	MaterialIn  int
	MaterialOut int
}

func (t *Triangle) Normal() core.Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

func (t *Triangle) Min() core.Vec3 { return core.Min3(t.A, core.Min3(t.B, t.C)) }
func (t *Triangle) Max() core.Vec3 { return core.Max3(t.A, core.Max3(t.B, t.C)) }

func (t *Triangle) centroid(axis int) float32 {
	return (t.A.Axis(axis) + t.B.Axis(axis) + t.C.Axis(axis)) / 3
}

// Sides returns the material codes a ray travelling along dir leaves and enters.
func (t *Triangle) Sides(dir core.Vec3) (from, to int) {
	if dir.Dot(t.Normal()) < 0 {
		return t.MaterialOut, t.MaterialIn
	}
	return t.MaterialIn, t.MaterialOut
}

// minHitDistance rejects grazing re-hits of a surface the ray just left.
const minHitDistance = 1e-6

// intersect returns the ray parameter of the hit, Möller-Trumbore, in float64.
func (t *Triangle) intersect(o, d core.Vec3) (float64, bool) {
	const eps = 1e-12

	ax, ay, az := float64(t.A.X), float64(t.A.Y), float64(t.A.Z)
	e1x, e1y, e1z := float64(t.B.X)-ax, float64(t.B.Y)-ay, float64(t.B.Z)-az
	e2x, e2y, e2z := float64(t.C.X)-ax, float64(t.C.Y)-ay, float64(t.C.Z)-az
	dx, dy, dz := float64(d.X), float64(d.Y), float64(d.Z)

	px, py, pz := dy*e2z-dz*e2y, dz*e2x-dx*e2z, dx*e2y-dy*e2x
	det := e1x*px + e1y*py + e1z*pz
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det

	sx, sy, sz := float64(o.X)-ax, float64(o.Y)-ay, float64(o.Z)-az
	u := (sx*px + sy*py + sz*pz) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	qx, qy, qz := sy*e1z-sz*e1y, sz*e1x-sx*e1z, sx*e1y-sy*e1x
	v := (dx*qx + dy*qy + dz*qz) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	tt := (e2x*qx + e2y*qy + e2z*qz) * inv
	if tt <= minHitDistance {
		return 0, false
	}
	return tt, true
}
