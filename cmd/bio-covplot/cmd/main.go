// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/covplot/freqmatrix"
	"v.io/x/lib/cmdline"
)

func newCmdHeatmap() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "heatmap",
		Short:    "Draw SNP support per coverage filter as a heatmap",
		ArgsName: "[outpath]",
		Long: `
Reads <dir>/counts_<cov>.txt (or counts_homo_<cov>.txt with -homozygous) for
every coverage filter and draws one row per filter and one column per SNP
position. Without outpath the figure is opened in an image viewer.`,
	}
	flags := heatmapFlags{
		dir:        cmd.Flags.String("dir", "output_sorted", "Directory holding the count files"),
		homozygous: cmd.Flags.Bool("homozygous", false, "Use the homozygous-only count files"),
		sample:     cmd.Flags.String("sample", "", "Sample name shown in the title"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) > 1 {
			return fmt.Errorf("heatmap takes at most one output path, but got %v", argv)
		}
		outPath := ""
		if len(argv) == 1 {
			outPath = argv[0]
		}
		return heatmap(vcontext.Background(), flags, outPath)
	})
	return cmd
}

func newCmdCounts() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "counts",
		Short: "Compute per-position SNP support from per-filter VCF listings",
		Long: `
For each coverage filter, reads <dir>/vcfs_<cov>.txt, a concatenation of the
VCF records called on each downsampled replicate with a single-field line
(e.g. the replicate name) between replicates, and writes the fraction of
replicates calling each position to <dir>/counts_<cov>.txt.`,
	}
	dir := cmd.Flags.String("dir", "output", "Directory holding the listings")
	homozygous := cmd.Flags.Bool("homozygous", false, "Only count 1/1 genotypes and write counts_homo_<cov>.txt")
	coverages := cmd.Flags.String("coverages", "", "Comma-separated coverage filters; default is all")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("counts takes no arguments, but got %v", argv)
		}
		thresholds, err := parseThresholds(*coverages)
		if err != nil {
			return err
		}
		return counts(vcontext.Background(), *dir, *homozygous, thresholds)
	})
	return cmd
}

func newCmdCoverage() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "coverage",
		Short:    "Draw per-position coverage and coverage histograms before and after downsampling",
		ArgsName: "oldcov.newcov.txt",
	}
	every := cmd.Flags.Int("every", 100, "Plot every n'th position")
	labelEvery := cmd.Flags.Int("label-every", 50, "Label every n'th plotted position")
	outDir := cmd.Flags.String("out-dir", ".", "Directory for the images")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("coverage takes one pathname argument, but got %v", argv)
		}
		return coverage(vcontext.Background(), argv[0], *every, *labelEvery, *outDir)
	})
	return cmd
}

func newCmdCovhist() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "covhist",
		Short:    "Draw coverage distributions before and after downsampling",
		ArgsName: "oldcov.newcov.txt",
	}
	outDir := cmd.Flags.String("out-dir", ".", "Directory for the images")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("covhist takes one pathname argument, but got %v", argv)
		}
		return covhist(vcontext.Background(), argv[0], *outDir)
	})
	return cmd
}

func newCmdReadLengths() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "readlengths",
		Short:    "Draw read length distributions of the full and downsampled read sets",
		ArgsName: "alllens.txt samplelens.txt",
	}
	outDir := cmd.Flags.String("out-dir", ".", "Directory for the images")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("readlengths takes alllens.txt samplelens.txt, but got %v", argv)
		}
		return readLengths(vcontext.Background(), argv[0], argv[1], *outDir)
	})
	return cmd
}

func newCmdStrandBias() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "strandbias",
		Short:    "Draw + strand read proportions of three read sets side by side",
		ArgsName: "sbfull.txt sb_old.txt sb_new.txt out.png",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 4 {
			return fmt.Errorf("strandbias takes sbfull.txt sb_old.txt sb_new.txt out.png, but got %v", argv)
		}
		return strandBias(vcontext.Background(), argv[:3], argv[3])
	})
	return cmd
}

// parseThresholds parses a comma-separated list of coverage filters.  The
// empty string selects all of them.
func parseThresholds(s string) ([]freqmatrix.Threshold, error) {
	if s == "" {
		return freqmatrix.Thresholds, nil
	}
	var thresholds []freqmatrix.Threshold
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("bad coverage filter %q in %q", f, s)
		}
		thresholds = append(thresholds, freqmatrix.Threshold(v))
	}
	return thresholds, nil
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-covplot",
		Short:    "Figures for coverage-downsampled read sets",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdHeatmap(),
			newCmdCounts(),
			newCmdCoverage(),
			newCmdCovhist(),
			newCmdReadLengths(),
			newCmdStrandBias(),
		},
	}
}

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
