package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ebsim/internal/analysis"
	"github.com/san-kum/ebsim/internal/config"
	"github.com/san-kum/ebsim/internal/core"
	"github.com/san-kum/ebsim/internal/physics"
	"github.com/san-kum/ebsim/internal/record"
	"github.com/san-kum/ebsim/internal/storage"
	"github.com/san-kum/ebsim/internal/viz"
	"github.com/spf13/cobra"
)

func inspectDetections(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	recs, err := record.ReadAll(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Heading.Render(args[0]))
	fmt.Fprintln(out, viz.Metric("records", len(recs)))
	if len(recs) == 0 {
		return nil
	}

	pixels := make(map[core.Pixel]struct{})
	for _, r := range recs {
		pixels[r.Pixel] = struct{}{}
	}
	fmt.Fprintln(out, viz.Metric("pixels", len(pixels)))

	spectrum := analysis.EnergySpectrum(recs, max(bins, 1))
	fmt.Fprintln(out, viz.Metric("mean energy (eV)", fmt.Sprintf("%.4g", spectrum.Stats.Mean)))
	fmt.Fprintln(out, viz.Metric("std dev (eV)", fmt.Sprintf("%.4g", spectrum.Stats.StdDev)))
	fmt.Fprintln(out, viz.Metric("range (eV)", fmt.Sprintf("%.4g .. %.4g", spectrum.Stats.Min, spectrum.Stats.Max)))
	fmt.Fprintln(out)

	graph := asciigraph.Plot(spectrum.Counts,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("energy spectrum, %.4g to %.4g eV", spectrum.Stats.Min, spectrum.Stats.Max)),
	)
	fmt.Fprintln(out, graph)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPRIMARIES\tDETECTED\tTERMINATED\tTHREADS\tELAPSED\tGEOMETRY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.2fs\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Simulated,
			run.Detected,
			run.Terminated,
			run.Threads,
			run.Elapsed.Seconds(),
			run.Geometry,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(out, "  %-14s threads=%d capacity=%d batch=%d buffer=%d\n",
			name, p.Threads, p.Capacity, p.Batch, p.BufferRecords)
	}
	return nil
}

func listMechanisms(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range physics.KindNames() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
