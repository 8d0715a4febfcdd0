// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package chart renders the downsampling QC figures with gonum/plot:
// coverage and read-length histograms, subsampled per-position coverage bar
// charts, strand-bias panels and the variant-support heatmap.
package chart
