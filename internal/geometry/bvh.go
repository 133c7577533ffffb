package geometry

import (
	"math"
	"sort"

	"github.com/san-kum/ebsim/internal/core"
)

const leafSize = 4

type node struct {
	min, max    core.Vec3
	left, right int32 // child node indices; -1 for leaves
	first, n    int32 // triangle range in Index.order, leaves only
}

// Hit describes the nearest interface along a ray.
type Hit struct {
	Distance float32
	Triangle int
	From, To int
	Normal   core.Vec3 // unit normal of the triangle hit
}

// Index is immutable after Build and safe for concurrent use.
type Index struct {
	tris  []Triangle
	order []int32
	nodes []node
	min   core.Vec3
	max   core.Vec3
}

// Build constructs a median-split BVH over tris.
func Build(tris []Triangle) *Index {
	idx := &Index{tris: tris, order: make([]int32, len(tris))}
	for i := range idx.order {
		idx.order[i] = int32(i)
	}
	if len(tris) == 0 {
		return idx
	}
	idx.build(0, int32(len(tris)))
	idx.min, idx.max = idx.nodes[0].min, idx.nodes[0].max
	return idx
}

func (idx *Index) build(first, last int32) int32 {
	t0 := &idx.tris[idx.order[first]]
	lo, hi := t0.Min(), t0.Max()
	cmin := core.Vec3{X: t0.centroid(0), Y: t0.centroid(1), Z: t0.centroid(2)}
	cmax := cmin
	for _, ti := range idx.order[first+1 : last] {
		t := &idx.tris[ti]
		lo, hi = core.Min3(lo, t.Min()), core.Max3(hi, t.Max())
		c := core.Vec3{X: t.centroid(0), Y: t.centroid(1), Z: t.centroid(2)}
		cmin, cmax = core.Min3(cmin, c), core.Max3(cmax, c)
	}

	self := int32(len(idx.nodes))
	idx.nodes = append(idx.nodes, node{min: lo, max: hi, left: -1, right: -1, first: first, n: last - first})
	if last-first <= leafSize {
		return self
	}

	spread := cmax.Sub(cmin)
	axis := 0
	if spread.Y > spread.Axis(axis) {
		axis = 1
	}
	if spread.Z > spread.Axis(axis) {
		axis = 2
	}

	span := idx.order[first:last]
	sort.SliceStable(span, func(i, j int) bool {
		return idx.tris[span[i]].centroid(axis) < idx.tris[span[j]].centroid(axis)
	})
	mid := first + (last-first)/2

	left := idx.build(first, mid)
	right := idx.build(mid, last)
	idx.nodes[self].left, idx.nodes[self].right = left, right
	idx.nodes[self].n = 0
	return self
}

// slab returns the entry distance of the ray into a box, clamped at 0.
func slab(o, inv, lo, hi core.Vec3) (float32, float32, bool) {
	tmin, tmax := float32(0), float32(math.Inf(1))
	for a := 0; a < 3; a++ {
		t0 := (lo.Axis(a) - o.Axis(a)) * inv.Axis(a)
		t1 := (hi.Axis(a) - o.Axis(a)) * inv.Axis(a)
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		// NaN from 0*Inf means the ray lies in the slab plane; keep the interval.
		if t0 == t0 && t0 > tmin {
			tmin = t0
		}
		if t1 == t1 && t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}

// Intersect finds the nearest triangle hit along dir within maxDist,
// skipping triangle ignore (use -1 for none).
func (idx *Index) Intersect(pos, dir core.Vec3, maxDist float32, ignore int) (Hit, bool) {
	if len(idx.nodes) == 0 {
		return Hit{}, false
	}
	inv := core.Vec3{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z}
	best := float64(maxDist)
	bestTri := -1

	var stack [64]int32
	sp := 0
	stack[sp] = 0
	sp++
	for sp > 0 {
		sp--
		n := &idx.nodes[stack[sp]]
		tmin, _, ok := slab(pos, inv, n.min, n.max)
		if !ok || float64(tmin) > best {
			continue
		}
		if n.left < 0 {
			for _, ti := range idx.order[n.first : n.first+n.n] {
				if int(ti) == ignore {
					continue
				}
				if t, ok := idx.tris[ti].intersect(pos, dir); ok && t < best {
					best, bestTri = t, int(ti)
				}
			}
			continue
		}
		stack[sp] = n.left
		stack[sp+1] = n.right
		sp += 2
	}

	if bestTri < 0 {
		return Hit{}, false
	}
	tri := &idx.tris[bestTri]
	from, to := tri.Sides(dir)
	return Hit{
		Distance: float32(best),
		Triangle: bestTri,
		From:     from,
		To:       to,
		Normal:   tri.Normal().Normalize(),
	}, true
}

func (idx *Index) AABBMin() core.Vec3 { return idx.min }
func (idx *Index) AABBMax() core.Vec3 { return idx.max }
func (idx *Index) Len() int          { return len(idx.tris) }

// Contains reports whether p lies inside the bounding box.
func (idx *Index) Contains(p core.Vec3) bool {
	return p.X >= idx.min.X && p.Y >= idx.min.Y && p.Z >= idx.min.Z &&
		p.X <= idx.max.X && p.Y <= idx.max.Y && p.Z <= idx.max.Z
}

// MaxMaterial returns the largest material index referenced, or -1.
func MaxMaterial(tris []Triangle) int {
	m := -1
	for i := range tris {
		m = max(m, tris[i].MaterialIn, tris[i].MaterialOut)
	}
	return m
}
