package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/san-kum/ebsim/internal/config"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/engine"
	"github.com/san-kum/ebsim/internal/output"
	"github.com/san-kum/ebsim/internal/physics"
	"github.com/san-kum/ebsim/internal/storage"
	"github.com/san-kum/ebsim/internal/timing"
	"github.com/san-kum/ebsim/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers preset, config file and explicitly set flags, in
// increasing precedence, over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, &core.ConfigError{Usage: true, Wrapped: fmt.Errorf("%w: unknown preset %s (available: %v)",
				core.ErrUsage, preset, config.ListPresets())}
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, &core.ConfigError{Wrapped: fmt.Errorf("failed to load config: %w", err)}
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("energy-threshold") {
		cfg.EnergyThreshold = energyThreshold
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("detect-filename") {
		cfg.DetectFilename = detectFilename
	}
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
	if flags.Changed("batch") {
		cfg.Batch = batch
	}
	if flags.Changed("buffer-records") {
		cfg.BufferRecords = bufferRecords
	}
	if flags.Changed("progress") {
		cfg.Progress = progressEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, &core.ConfigError{Usage: true, Wrapped: err}
	}
	return cfg, nil
}

// closeSink closes the detect file, keeping the first error.
func closeSink(sink io.Closer, err error) error {
	if cerr := sink.Close(); cerr != nil && err == nil {
		return fmt.Errorf("could not close detect file: %w", cerr)
	}
	return err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	kinds := physics.DefaultKinds()
	if len(cfg.Mechanisms) > 0 {
		if kinds, err = physics.LookupKinds(cfg.Mechanisms); err != nil {
			return &core.ConfigError{Usage: true, Wrapped: err}
		}
	}

	paths := engine.Paths{Geometry: args[0], Primaries: args[1], Materials: args[2:]}
	timer := timing.New()
	in, err := engine.Load(paths, kinds, timer, stderr)
	if err != nil {
		return err
	}

	sink, err := output.Open(cfg.DetectFilename)
	if err != nil {
		return fmt.Errorf("could not open detect file: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := engine.Options{
		Threads:          cfg.Threads,
		Capacity:         cfg.Capacity,
		Batch:            cfg.Batch,
		BufferRecords:    cfg.BufferRecords,
		EnergyThreshold:  cfg.EnergyThreshold,
		Seed:             cfg.Seed,
		ProgressInterval: cfg.Progress,
	}
	if cfg.Progress > 0 {
		opts.Progress = func(remaining, total int) {
			fmt.Fprint(stderr, viz.ProgressLine(remaining, total))
		}
	}

	timer.Start()
	sum, runErr := engine.Run(ctx, in, sink, opts)
	runErr = closeSink(sink, runErr)
	timer.Stop("Simulation")
	if opts.Progress != nil {
		fmt.Fprintln(stderr)
	}

	fmt.Fprintln(stderr, viz.Heading.Render("Timing"))
	timer.Print(stderr)
	fmt.Fprintln(stderr, viz.Metric("threads", sum.Threads))
	fmt.Fprintln(stderr, viz.Metric("primaries", sum.Primaries))
	fmt.Fprintln(stderr, viz.Metric("detected", sum.Stats.Detected))
	fmt.Fprintln(stderr, viz.Metric("terminated", sum.Stats.Terminated))
	fmt.Fprintln(stderr, viz.Metric("bytes written", sink.Written()))
	if runErr != nil {
		return runErr
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Seed:            cfg.Seed,
		Threads:         sum.Threads,
		EnergyThreshold: cfg.EnergyThreshold,
		Geometry:        paths.Geometry,
		Primaries:       paths.Primaries,
		Materials:       paths.Materials,
		DetectFile:      sink.Name(),
		Simulated:       sum.Primaries,
		Detected:        sum.Stats.Detected,
		Terminated:      sum.Stats.Terminated,
		Elapsed:         sum.Elapsed,
	}, timer.Entries())
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, viz.Subtle.Render("run id: "+runID))
	return nil
}
