// Package storage keeps a record of past runs under a data directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ebsim/internal/timing"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Seed            uint64    `json:"seed"`
	Threads         int       `json:"threads"`
	EnergyThreshold float32   `json:"energy_threshold"`
	Geometry        string    `json:"geometry"`
	Primaries       string    `json:"primaries"`
	Materials       []string  `json:"materials"`
	DetectFile      string    `json:"detect_file"`

	Simulated  int           `json:"simulated"`
	Detected   uint64        `json:"detected"`
	Terminated uint64        `json:"terminated"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Save writes meta (assigning ID and Timestamp) and the phase timings.
// It returns the new run ID.
func (s *Store) Save(meta RunMetadata, phases []timing.Entry) (string, error) {
	meta.Timestamp = s.now()
	meta.ID = fmt.Sprintf("run_%d", meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "phases.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"phase", "seconds"}); err != nil {
		return "", err
	}
	for _, p := range phases {
		row := []string{p.Label, strconv.FormatFloat(p.Duration.Seconds(), 'f', 6, 64)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadPhases(runID string) ([]timing.Entry, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "phases.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []timing.Entry{}, nil
	}

	phases := make([]timing.Entry, 0, len(records)-1)
	for _, rec := range records[1:] {
		sec, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s: phase %q: %w", runID, rec[0], err)
		}
		phases = append(phases, timing.Entry{
			Label:    rec[0],
			Duration: time.Duration(sec * float64(time.Second)),
		})
	}
	return phases, nil
}
