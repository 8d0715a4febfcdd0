// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freqmatrix

import (
	"sort"
	"strconv"
)

// Threshold is a coverage filter applied when downsampling reads.
type Threshold int

// Thresholds lists the coverage filters in row order.  The last one is large
// enough to keep every read and is labelled "All".
var Thresholds = []Threshold{30, 50, 100, 200, 500, 1000, 10000}

// Label returns the row label for t.
func (t Threshold) Label() string {
	if t == Thresholds[len(Thresholds)-1] {
		return "All"
	}
	return strconv.Itoa(int(t))
}

// Sample is the variant support observed under a single coverage filter.
type Sample struct {
	Threshold Threshold
	// Freqs maps a position to the fraction of reads confirming the variant
	// there, in [0, 1].
	Freqs map[int]float64
}

// Matrix is the dense form of a list of samples.
type Matrix struct {
	// Keys lists the columns' positions, ascending.
	Keys []int
	// Labels lists the rows' threshold labels.
	Labels []string
	// Rows[i][j] is the frequency of Keys[j] in sample i.
	Rows [][]float64
}

// BuildKeyUniverse returns every position that appears in at least one
// sample, each exactly once, in ascending order.
func BuildKeyUniverse(samples []Sample) []int {
	seen := map[int]bool{}
	var keys []int
	for _, s := range samples {
		for k := range s.Freqs {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Ints(keys)
	if keys == nil {
		keys = []int{}
	}
	return keys
}

// BuildMatrix returns one row per sample, in sample order, with one column
// per key.  A key missing from a sample yields 0.
func BuildMatrix(samples []Sample, keys []int) [][]float64 {
	rows := make([][]float64, len(samples))
	for i, s := range samples {
		row := make([]float64, len(keys))
		for j, k := range keys {
			row[j] = s.Freqs[k]
		}
		rows[i] = row
	}
	return rows
}

// Build computes the key universe and matrix for samples.
func Build(samples []Sample) *Matrix {
	keys := BuildKeyUniverse(samples)
	labels := make([]string, len(samples))
	for i, s := range samples {
		labels[i] = s.Threshold.Label()
	}
	return &Matrix{
		Keys:   keys,
		Labels: labels,
		Rows:   BuildMatrix(samples, keys),
	}
}

// AllFull reports whether every row's minimum is at least 1, i.e. every
// position is fully supported under every filter.  The heatmap uses this to
// drop the light end of its palette.  Empty rows are ignored.
func (m *Matrix) AllFull() bool {
	return AllFull(m.Rows)
}

// AllFull is the matrix-free form of Matrix.AllFull.
func AllFull(rows [][]float64) bool {
	for _, row := range rows {
		for _, v := range row {
			if v < 1.0 {
				return false
			}
		}
	}
	return true
}
