// Package matfile reads the two on-disk material formats: the legacy
// INI-style .mat file (SI units) and the structured YAML property file
// (quantities with explicit units).
package matfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/ebsim/internal/units"
	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"
)

var ErrMissingProperty = errors.New("matfile: missing property")

// Legacy mirrors the sections of a .mat file. All values are SI.
type Legacy struct {
	Material struct {
		Name    string
		Barrier float64 // J
	}
	Elastic struct {
		Mfp        float64 // m
		Anisotropy float64
	}
	Inelastic struct {
		Mfp  float64 // m
		Loss float64 // J, mean loss per event
	}
}

// ReadLegacy parses a legacy .mat file.
func ReadLegacy(path string) (*Legacy, error) {
	l := &Legacy{}
	if err := gcfg.ReadFileInto(l, path); err != nil {
		return nil, fmt.Errorf("matfile: %s: %w", path, err)
	}
	return l, nil
}

// ParseLegacy parses legacy .mat content held in memory.
func ParseLegacy(text string) (*Legacy, error) {
	l := &Legacy{}
	if err := gcfg.ReadStringInto(l, text); err != nil {
		return nil, fmt.Errorf("matfile: %w", err)
	}
	return l, nil
}

// Structured is a named-property container. Property values are
// quantity strings such as "4.7 eV" or "2 nm".
type Structured struct {
	Name       string            `yaml:"name"`
	Properties map[string]string `yaml:"properties"`
}

func ReadStructured(path string) (*Structured, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseStructured(data)
	if err != nil {
		return nil, fmt.Errorf("matfile: %s: %w", path, err)
	}
	return s, nil
}

func ParseStructured(data []byte) (*Structured, error) {
	s := &Structured{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Properties == nil {
		s.Properties = map[string]string{}
	}
	return s, nil
}

func (s *Structured) Has(key string) bool {
	_, ok := s.Properties[key]
	return ok
}

// Quantity returns the raw quantity stored under key.
func (s *Structured) Quantity(key string) (units.Quantity, error) {
	raw, ok := s.Properties[key]
	if !ok {
		return units.Quantity{}, fmt.Errorf("%w: %q", ErrMissingProperty, key)
	}
	q, err := units.Parse(raw)
	if err != nil {
		return units.Quantity{}, fmt.Errorf("property %q: %w", key, err)
	}
	return q, nil
}

// PropertyIn returns the property under key converted to internal units of d.
func (s *Structured) PropertyIn(key string, d units.Dimension) (float64, error) {
	q, err := s.Quantity(key)
	if err != nil {
		return 0, err
	}
	v, err := q.In(d)
	if err != nil {
		return 0, fmt.Errorf("property %q: %w", key, err)
	}
	return v, nil
}
