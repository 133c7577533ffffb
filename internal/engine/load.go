package engine

import (
	"fmt"
	"io"

	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/geometry"
	"github.com/san-kum/ebsim/internal/material"
	"github.com/san-kum/ebsim/internal/physics"
	"github.com/san-kum/ebsim/internal/primaries"
	"github.com/san-kum/ebsim/internal/timing"
	"github.com/san-kum/ebsim/internal/viz"
)

// Paths names the input files of a run.
type Paths struct {
	Geometry  string
	Primaries string
	Materials []string
}

// Inputs is everything a run reads. It is immutable once Run starts.
type Inputs struct {
	Geometry  *geometry.Index
	Materials []*material.Material
	Primaries *primaries.Set
}

// Load reads geometry, primaries and materials in that order, recording
// each phase in timer. Warnings go to diag.
func Load(paths Paths, kinds []physics.Kind, timer *timing.Log, diag io.Writer) (*Inputs, error) {
	timer.Start()
	tris, err := geometry.Load(paths.Geometry)
	if err != nil {
		return nil, &core.ConfigError{Wrapped: fmt.Errorf("%w: %w", core.ErrNoTriangles, err)}
	}
	if len(tris) == 0 {
		return nil, &core.ConfigError{Usage: true, Wrapped: core.ErrNoTriangles}
	}
	timer.Stop("Loading triangles")

	timer.Start()
	idx := geometry.Build(tris)
	timer.Stop("Building acceleration structure")

	timer.Start()
	prim, err := primaries.Load(paths.Primaries, idx.AABBMin(), idx.AABBMax())
	if err != nil {
		return nil, &core.ConfigError{Wrapped: fmt.Errorf("%w: %w", core.ErrNoPrimaries, err)}
	}
	if prim.Dropped > 0 {
		fmt.Fprintln(diag, viz.Warning("dropped %d primary electrons outside the geometry", prim.Dropped))
	}
	if prim.Len() == 0 {
		return nil, &core.ConfigError{Usage: true, Wrapped: core.ErrNoPrimaries}
	}
	timer.Stop("Loading primary electrons")

	need := geometry.MaxMaterial(tris) + 1
	if len(paths.Materials) < need {
		return nil, &core.ConfigError{Usage: true, Wrapped: fmt.Errorf("%w: need %d, got %d",
			core.ErrNotEnoughMaterials, need, len(paths.Materials))}
	}
	if len(paths.Materials) > need {
		fmt.Fprintln(diag, viz.Warning("too many materials provided: geometry uses %d, got %d",
			need, len(paths.Materials)))
	}

	timer.Start()
	mats := make([]*material.Material, len(paths.Materials))
	for i, name := range paths.Materials {
		m, err := material.Load(name, kinds)
		if err != nil {
			return nil, &core.ConfigError{Wrapped: err}
		}
		mats[i] = m
	}
	timer.Stop("Loading materials")

	return &Inputs{Geometry: idx, Materials: mats, Primaries: prim}, nil
}
