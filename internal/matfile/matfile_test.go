package matfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ebsim/internal/units"
)

const legacyText = `
[material]
name = silicon
barrier = 8.0109e-19

[elastic]
mfp = 2e-9
anisotropy = 0.6

[inelastic]
mfp = 5e-9
loss = 1.602176634e-18
`

func TestReadLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "si.mat")
	if err := os.WriteFile(path, []byte(legacyText), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := ReadLegacy(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if l.Material.Name != "silicon" {
		t.Errorf("expected name silicon, got %q", l.Material.Name)
	}
	if l.Elastic.Anisotropy != 0.6 {
		t.Errorf("expected anisotropy 0.6, got %g", l.Elastic.Anisotropy)
	}
	if l.Inelastic.Mfp != 5e-9 {
		t.Errorf("expected inelastic mfp 5e-9, got %g", l.Inelastic.Mfp)
	}
}

func TestParseLegacy_UnknownSection(t *testing.T) {
	if _, err := ParseLegacy("[phonon]\nmfp = 1\n"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestStructured(t *testing.T) {
	s, err := ParseStructured([]byte(`
name: gold
properties:
  barrier: 5.1 eV
  elastic.mfp: 0.8 nm
  elastic.anisotropy: "0.4"
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	b, err := s.PropertyIn("barrier", units.Energy)
	if err != nil || b != 5.1 {
		t.Errorf("barrier = %v, %v; want 5.1", b, err)
	}

	if _, err := s.PropertyIn("barrier", units.Length); err == nil {
		t.Error("expected dimension error")
	}

	if _, err := s.Quantity("inelastic.mfp"); err == nil {
		t.Error("expected missing property error")
	}

	if !s.Has("elastic.mfp") || s.Has("phonon.mfp") {
		t.Error("Has reports wrong keys")
	}
}

func TestReadStructured_Missing(t *testing.T) {
	if _, err := ReadStructured(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
