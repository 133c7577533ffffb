// Package analysis summarizes detected electrons.
//
//   - [Summarize]: count, mean, spread and range of a sample
//   - [Histogram]: fixed-width binning for plotting
//   - [EnergySpectrum]: both of the above over the kinetic energies of records
//
// Typical use with a detect file:
//
//	recs, _ := record.ReadAll(f)
//	spectrum := analysis.EnergySpectrum(recs, 60)
//	fmt.Println(spectrum.Stats.Mean, spectrum.Counts)
package analysis
