// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/covplot/chart"
	"github.com/grailbio/covplot/freqmatrix"
	"github.com/grailbio/covplot/numfile"
	"github.com/grailbio/covplot/variantcount"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Figure sizes.
const (
	figWidth      = 6.4 * vg.Inch
	figHeight     = 4.8 * vg.Inch
	heatmapWidth  = 20 * vg.Inch
	heatmapHeight = 6 * vg.Inch
	rowWidth      = 15 * vg.Inch
	rowHeight     = 5 * vg.Inch
)

type heatmapFlags struct {
	dir        *string
	homozygous *bool
	sample     *string
}

// heatmap loads the count files under dir for every threshold and draws them.
// The figure is written to outPath, or shown when outPath is empty.
func heatmap(ctx context.Context, flags heatmapFlags, outPath string) error {
	samples, err := freqmatrix.LoadSamples(ctx, *flags.dir, *flags.homozygous)
	if err != nil {
		return err
	}
	m := freqmatrix.Build(samples)
	log.Printf("%s: %d positions over %d coverage filters", *flags.dir, len(m.Keys), len(m.Rows))

	opts := chart.DefaultHeatmapOpts
	opts.Title = chart.HeatmapTitle(*flags.sample, *flags.homozygous)
	p, err := chart.Heatmap(m, opts)
	if err != nil {
		return errors.E(err, *flags.dir)
	}
	if outPath == "" {
		return chart.Show(p, heatmapWidth, heatmapHeight)
	}
	return chart.Save(ctx, p, heatmapWidth, heatmapHeight, outPath)
}

// counts writes one count file per threshold from the VCF listings in dir.
func counts(ctx context.Context, dir string, homozygous bool, thresholds []freqmatrix.Threshold) error {
	opts := variantcount.Opts{Homozygous: homozygous}
	for _, t := range thresholds {
		path, err := variantcount.Run(ctx, dir, t, opts)
		if err != nil {
			return err
		}
		log.Printf("coverage %d: wrote %s", t, path)
	}
	return nil
}

// figure is a plot and the file name it is saved under.
type figure struct {
	name string
	p    *plot.Plot
}

func saveFigures(ctx context.Context, figs []figure, outDir string) error {
	for _, f := range figs {
		if err := chart.Save(ctx, f.p, figWidth, figHeight, filepath.Join(outDir, f.name)); err != nil {
			return err
		}
	}
	return nil
}

// coverageSets names the two columns of a coverage log.
var coverageSets = []struct{ name, title string }{
	{"oldcov", "Old coverage"},
	{"newcov", "New coverage"},
}

// coveragePlots draws the old and new coverage of each position as bars, and
// the distribution of each as a count histogram.
func coveragePlots(cols [][]float64, every, labelEvery int) ([]figure, error) {
	var figs []figure
	for i, set := range coverageSets {
		barOpts := chart.DefaultBarOpts
		barOpts.Title = set.title
		barOpts.Width = figWidth
		p, err := chart.SampledBars(cols[i], every, labelEvery, barOpts)
		if err != nil {
			return nil, err
		}
		figs = append(figs, figure{set.name + "scatter.png", p})

		histOpts := chart.DefaultHistOpts
		histOpts.Title = set.title
		histOpts.XLabel = "Coverage"
		histOpts.YLabel = "Number of bases"
		if p, err = chart.Histogram(cols[i], histOpts); err != nil {
			return nil, err
		}
		figs = append(figs, figure{set.name + "hist.png", p})
	}
	return figs, nil
}

// covhistPlots draws the density of the old and new coverage.
func covhistPlots(cols [][]float64) ([]figure, error) {
	var figs []figure
	for i, set := range coverageSets {
		opts := chart.DefaultHistOpts
		opts.Title = set.title
		opts.XLabel = "Coverage"
		opts.Density = true
		p, err := chart.Histogram(cols[i], opts)
		if err != nil {
			return nil, err
		}
		figs = append(figs, figure{set.name + ".png", p})
	}
	return figs, nil
}

func coverage(ctx context.Context, path string, every, labelEvery int, outDir string) error {
	cols, err := numfile.ReadColumns(ctx, path, 2)
	if err != nil {
		return err
	}
	figs, err := coveragePlots(cols, every, labelEvery)
	if err != nil {
		return err
	}
	return saveFigures(ctx, figs, outDir)
}

func covhist(ctx context.Context, path, outDir string) error {
	cols, err := numfile.ReadColumns(ctx, path, 2)
	if err != nil {
		return err
	}
	figs, err := covhistPlots(cols)
	if err != nil {
		return err
	}
	return saveFigures(ctx, figs, outDir)
}

// readLengths draws the density of the read lengths of the full and the
// downsampled read sets.
func readLengths(ctx context.Context, allPath, samplePath, outDir string) error {
	for _, fig := range []struct{ in, title, out string }{
		{allPath, "All Read Lengths", "oldreadlengths.png"},
		{samplePath, "Sample Read Lengths", "samplereadlengths.png"},
	} {
		lengths, err := numfile.ReadValues(ctx, fig.in)
		if err != nil {
			return err
		}
		opts := chart.DefaultHistOpts
		opts.Title = fig.title
		opts.XLabel = "Read length"
		opts.Density = true
		p, err := chart.Histogram(lengths, opts)
		if err != nil {
			return err
		}
		if err := chart.Save(ctx, p, figWidth, figHeight, filepath.Join(outDir, fig.out)); err != nil {
			return err
		}
	}
	return nil
}

var strandBiasPanels = []string{"Full Dataset", "Sample (old)", "Sample (even_strand)"}

// strandBias draws the + strand proportions in each of paths as count
// histograms in one row.
func strandBias(ctx context.Context, paths []string, outPath string) error {
	if len(paths) != len(strandBiasPanels) {
		return errors.E(errors.Invalid, fmt.Sprintf("strand bias needs %d inputs, got %d", len(strandBiasPanels), len(paths)))
	}
	plots := make([]*plot.Plot, len(paths))
	for i, path := range paths {
		ratios, err := numfile.ReadValues(ctx, path)
		if err != nil {
			return err
		}
		opts := chart.DefaultHistOpts
		opts.Title = strandBiasPanels[i]
		opts.XLabel = "+ strand read proportion"
		if plots[i], err = chart.Histogram(ratios, opts); err != nil {
			return err
		}
		plots[i].HideY()
	}
	return chart.SaveRow(ctx, "Strand Bias", plots, rowWidth, rowHeight, outPath)
}
