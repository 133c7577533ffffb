package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/ebsim/internal/timing"
)

func testMeta() RunMetadata {
	return RunMetadata{
		Seed:       42,
		Threads:    4,
		Geometry:   "scene.tri",
		Primaries:  "beam.pri",
		Materials:  []string{"si.mat"},
		DetectFile: "stdout",
		Simulated:  100,
		Detected:   60,
		Terminated: 40,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	phases := []timing.Entry{
		{Label: "Loading triangles", Duration: 250 * time.Millisecond},
		{Label: "Simulation", Duration: 3 * time.Second},
	}
	runID, err := st.Save(testMeta(), phases)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Detected != 60 || meta.Terminated != 40 {
		t.Errorf("unexpected counts %d/%d", meta.Detected, meta.Terminated)
	}
	if len(meta.Materials) != 1 || meta.Materials[0] != "si.mat" {
		t.Errorf("unexpected materials %v", meta.Materials)
	}

	got, err := st.LoadPhases(runID)
	if err != nil {
		t.Fatalf("load phases failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(got))
	}
	if got[1].Label != "Simulation" || got[1].Duration != 3*time.Second {
		t.Errorf("unexpected phase %+v", got[1])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	clock := time.Unix(1000, 0)
	st.now = func() time.Time { return clock }
	first, err := st.Save(testMeta(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	clock = clock.Add(time.Minute)
	second, err := st.Save(testMeta(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Stray files and broken runs are skipped.
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(tmpDir, "broken"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected %s, %s in order, got %s, %s", first, second, runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testMeta(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "phases.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
