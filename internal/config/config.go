package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSeed          uint64 = 0x14f8214e78c7e39b
	DefaultDetectFile           = "stdout"
	DefaultCapacity             = 1 << 16
	DefaultBatch                = 1
	DefaultBufferRecords        = 1024
	DefaultProgress             = time.Second
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	EnergyThreshold float32       `yaml:"energy_threshold"`
	Seed            uint64        `yaml:"seed"`
	DetectFilename  string        `yaml:"detect_filename"`
	Threads         int           `yaml:"threads"` // 0 means one per CPU
	Capacity        int           `yaml:"capacity"`
	Batch           int           `yaml:"batch"`
	BufferRecords   int           `yaml:"buffer_records"`
	Progress        time.Duration `yaml:"progress"`

	// Mechanisms names the scattering mechanisms every material is built
	// from, in order. Empty means all registered mechanisms.
	Mechanisms []string `yaml:"mechanisms,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:           DefaultSeed,
		DetectFilename: DefaultDetectFile,
		Capacity:       DefaultCapacity,
		Batch:          DefaultBatch,
		BufferRecords:  DefaultBufferRecords,
		Progress:       DefaultProgress,
	}
}

// Load reads a yaml config; keys it omits keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.EnergyThreshold < 0:
		return fmt.Errorf("%w: energy_threshold %g is negative", ErrInvalid, c.EnergyThreshold)
	case c.Threads < 0:
		return fmt.Errorf("%w: threads %d is negative", ErrInvalid, c.Threads)
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalid, c.Capacity)
	case c.Batch <= 0:
		return fmt.Errorf("%w: batch must be positive, got %d", ErrInvalid, c.Batch)
	case c.BufferRecords <= 0:
		return fmt.Errorf("%w: buffer_records must be positive, got %d", ErrInvalid, c.BufferRecords)
	case c.Progress < 0:
		return fmt.Errorf("%w: progress interval %v is negative", ErrInvalid, c.Progress)
	case c.DetectFilename == "":
		return fmt.Errorf("%w: detect_filename is empty", ErrInvalid)
	}
	return nil
}
