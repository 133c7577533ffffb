package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/ebsim/internal/core"
)

// Load reads a .tri file: one triangle per line,
//
//	material_in material_out x0 y0 z0 x1 y1 z1 x2 y2 z2
//
// Blank lines and lines starting with '#' are skipped.
func Load(path string) ([]Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tris, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("geometry: %s: %w", path, err)
	}
	return tris, nil
}

func Read(r io.Reader) ([]Triangle, error) {
	var tris []Triangle
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 11 {
			return nil, fmt.Errorf("line %d: expected 11 fields, got %d", line, len(fields))
		}

		var mats [2]int
		for i := range mats {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: material: %w", line, err)
			}
			mats[i] = v
		}
		var c [9]float32
		for i := range c {
			v, err := strconv.ParseFloat(fields[2+i], 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: coordinate: %w", line, err)
			}
			c[i] = float32(v)
		}

		tris = append(tris, Triangle{
			A:           core.Vec3{X: c[0], Y: c[1], Z: c[2]},
			B:           core.Vec3{X: c[3], Y: c[4], Z: c[5]},
			C:           core.Vec3{X: c[6], Y: c[7], Z: c[8]},
			MaterialIn:  mats[0],
			MaterialOut: mats[1],
		})
	}
	return tris, sc.Err()
}

// Write emits tris in .tri format.
func Write(w io.Writer, tris []Triangle) error {
	bw := bufio.NewWriter(w)
	for _, t := range tris {
		_, err := fmt.Fprintf(bw, "%d %d %g %g %g %g %g %g %g %g %g\n",
			t.MaterialIn, t.MaterialOut,
			t.A.X, t.A.Y, t.A.Z, t.B.X, t.B.Y, t.B.Z, t.C.X, t.C.Y, t.C.Z)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Quad splits the planar quadrilateral a-b-c-d into two triangles.
func Quad(a, b, c, d core.Vec3, in, out int) []Triangle {
	return []Triangle{
		{A: a, B: b, C: c, MaterialIn: in, MaterialOut: out},
		{A: a, B: c, C: d, MaterialIn: in, MaterialOut: out},
	}
}

// Cuboid returns the twelve triangles of an axis-aligned box with outward
// normals, so that the interior is material in and the exterior is out.
func Cuboid(lo, hi core.Vec3, in, out int) []Triangle {
	corner := func(i int) core.Vec3 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		return c
	}
	center := lo.Add(hi).Mul(0.5)
	faces := [6][4]int{
		{0, 2, 6, 4}, {1, 3, 7, 5},
		{0, 1, 5, 4}, {2, 3, 7, 6},
		{0, 1, 3, 2}, {4, 5, 7, 6},
	}

	tris := make([]Triangle, 0, 12)
	for _, f := range faces {
		for _, t := range Quad(corner(f[0]), corner(f[1]), corner(f[2]), corner(f[3]), in, out) {
			mid := t.A.Add(t.B).Add(t.C).Mul(1.0 / 3)
			if t.Normal().Dot(mid.Sub(center)) < 0 {
				t.B, t.C = t.C, t.B
			}
			tris = append(tris, t)
		}
	}
	return tris
}
