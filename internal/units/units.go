// Package units converts physical quantities into the simulator's
// internal units: electronvolts for energy and nanometres for length.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ElementaryCharge in coulombs; one eV in joules has the same magnitude.
const ElementaryCharge = 1.602176634e-19

var (
	ErrUnknownUnit = errors.New("units: unknown unit")
	ErrDimension   = errors.New("units: wrong dimension")
	ErrSyntax      = errors.New("units: malformed quantity")
)

type Dimension uint8

const (
	Dimensionless Dimension = iota
	Energy
	Length
)

func (d Dimension) String() string {
	switch d {
	case Energy:
		return "energy"
	case Length:
		return "length"
	}
	return "dimensionless"
}

type unit struct {
	dim   Dimension
	scale float64 // multiplier into internal units
}

var table = map[string]unit{
	"":    {Dimensionless, 1},
	"1":   {Dimensionless, 1},
	"eV":  {Energy, 1},
	"keV": {Energy, 1e3},
	"MeV": {Energy, 1e6},
	"J":   {Energy, 1 / ElementaryCharge},
	"nm":  {Length, 1},
	"m":   {Length, 1e9},
	"cm":  {Length, 1e7},
	"um":  {Length, 1e3},
	"Å":   {Length, 0.1},
	"A":   {Length, 0.1},
}

// Quantity is a value with a unit, as written in a structured material file.
type Quantity struct {
	Value float64
	Unit  string
}

// Parse reads "<value> [unit]", e.g. "4.5 eV" or "1.2e-9 m".
func Parse(s string) (Quantity, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Quantity{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	q := Quantity{Value: v}
	if len(fields) == 2 {
		q.Unit = fields[1]
	}
	return q, nil
}

// In converts q to internal units of dimension d.
func (q Quantity) In(d Dimension) (float64, error) {
	u, ok := table[q.Unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, q.Unit)
	}
	if u.dim != d {
		return 0, fmt.Errorf("%w: %q is %s, want %s", ErrDimension, q.Unit, u.dim, d)
	}
	return q.Value * u.scale, nil
}

func (q Quantity) String() string {
	if q.Unit == "" {
		return strconv.FormatFloat(q.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit
}

// JoulesToEV converts a legacy SI energy.
func JoulesToEV(j float64) float64 { return j / ElementaryCharge }

// MetresToNM converts a legacy SI length.
func MetresToNM(m float64) float64 { return m * 1e9 }
