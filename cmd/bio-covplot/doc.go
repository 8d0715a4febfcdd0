// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Command bio-covplot draws QC figures for coverage-downsampled read sets.

  Subcommands:

    heatmap      SNP support per coverage filter, from output_sorted/counts_*.txt
    counts       per-position SNP support from vcfs_<cov>.txt listings
    coverage     per-position coverage bars and coverage histograms
    covhist      old and new coverage distributions
    readlengths  read length distributions of the full and downsampled sets
    strandbias   + strand read proportion of three read sets

  Example:

    bio-downsample -input jhu004.sam -coverage-threshold 50
    bio-covplot coverage coverage.txt
    bio-covplot readlengths lengths_all.txt lengths_sample.txt
    bio-covplot heatmap -homozygous snps_homo.png
*/
package main
