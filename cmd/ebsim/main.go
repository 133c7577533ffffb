package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/ebsim/internal/config"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string

	energyThreshold float32
	seed            uint64
	detectFilename  string
	configFile      string
	preset          string
	threads         int
	capacity        int
	batch           int
	bufferRecords   int
	progressEvery   time.Duration
	noSave          bool

	bins int
)

// main registers the commands and exits with status 1 on any error. Usage
// goes to stderr because stdout may be carrying detected records.
func main() {
	rootCmd := newRootCmd()
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	stderr := rootCmd.ErrOrStderr()
	fmt.Fprintln(stderr, viz.Error("%v", err))
	var cerr *core.ConfigError
	if errors.As(err, &cerr) && cerr.Usage {
		cmd.SetOut(stderr)
		cmd.Usage()
	}
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ebsim",
		Short:         "monte carlo electron trajectory simulator",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &core.ConfigError{Usage: true, Wrapped: fmt.Errorf("%w: %w", core.ErrUsage, err)}
	})

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ebsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run <geometry.tri> <primaries.pri> <material0> [.. materialN]",
		Short: "simulate primaries through a geometry",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(3)(cmd, args); err != nil {
				return &core.ConfigError{Usage: true, Wrapped: fmt.Errorf("%w: %w", core.ErrUsage, err)}
			}
			return nil
		},
		RunE: runSimulation,
	}
	runCmd.Flags().Float32Var(&energyThreshold, "energy-threshold", 0, "terminate electrons below this energy (eV)")
	runCmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "master random seed")
	runCmd.Flags().StringVar(&detectFilename, "detect-filename", config.DefaultDetectFile, "output file for detected electrons")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&threads, "threads", 0, "worker count (0 = one per CPU)")
	runCmd.Flags().IntVar(&capacity, "capacity", config.DefaultCapacity, "electrons in flight per worker")
	runCmd.Flags().IntVar(&batch, "batch", config.DefaultBatch, "primaries claimed per worker cycle")
	runCmd.Flags().IntVar(&bufferRecords, "buffer-records", config.DefaultBufferRecords, "records buffered per worker before writing")
	runCmd.Flags().DurationVar(&progressEvery, "progress", config.DefaultProgress, "progress interval (0 disables)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record run metadata")

	inspectCmd := &cobra.Command{
		Use:   "inspect <detect-file>",
		Short: "summarize a file of detected electrons",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectDetections,
	}
	inspectCmd.Flags().IntVar(&bins, "bins", 60, "energy histogram bins")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available run presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	mechanismsCmd := &cobra.Command{
		Use:   "mechanisms",
		Short: "list scattering mechanisms materials can be built from",
		Args:  cobra.NoArgs,
		RunE:  listMechanisms,
	}

	rootCmd.AddCommand(runCmd, inspectCmd, listCmd, presetsCmd, mechanismsCmd)
	return rootCmd
}
