package config

import "sort"

// Presets are named starting points for common run shapes.
var Presets = map[string]*Config{
	// One worker and a small working set; output is reproducible byte for byte.
	"deterministic": {
		Seed: DefaultSeed, DetectFilename: DefaultDetectFile, Threads: 1,
		Capacity: 1 << 10, Batch: 1, BufferRecords: DefaultBufferRecords, Progress: DefaultProgress,
	},
	"throughput": {
		Seed: DefaultSeed, DetectFilename: DefaultDetectFile,
		Capacity: 1 << 18, Batch: 256, BufferRecords: 1 << 14, Progress: DefaultProgress,
	},
	"quiet": {
		Seed: DefaultSeed, DetectFilename: DefaultDetectFile,
		Capacity: DefaultCapacity, Batch: DefaultBatch, BufferRecords: DefaultBufferRecords,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Mechanisms = append([]string(nil), p.Mechanisms...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
