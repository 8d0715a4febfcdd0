// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package downsample

import (
	"math/rand"
	"sort"
)

// coverage returns the per-base depth of reads over [0, n).  All reads must
// end at or before n.
func coverage(reads []read, n int) []int {
	// Difference array: +1 at each start, -1 at each end, then prefix sums.
	cov := make([]int, n+1)
	for _, r := range reads {
		cov[r.start]++
		cov[r.end]--
	}
	for i := 1; i < len(cov); i++ {
		cov[i] += cov[i-1]
	}
	return cov[:n]
}

// visitOrder returns indexes into reads in the order selection considers
// them: best accuracy first if qualSort, else shuffled by rng.
func visitOrder(reads []read, qualSort bool, rng *rand.Rand) []int {
	order := make([]int, len(reads))
	for i := range order {
		order[i] = i
	}
	if qualSort {
		sort.SliceStable(order, func(i, j int) bool {
			return reads[order[i]].accuracy > reads[order[j]].accuracy
		})
	} else {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}

// selectReads walks reads in order and keeps each read whose covered bases
// have a minimum kept depth below threshold, adding the kept read to kept.
// The returned slice is indexed like reads.
func selectReads(reads []read, order []int, kept []int, threshold int) []bool {
	used := make([]bool, len(reads))
	for _, i := range order {
		r := reads[i]
		minCov := kept[r.start]
		for p := r.start; p < r.end; p++ {
			if kept[p] < minCov {
				minCov = kept[p]
			}
		}
		if minCov >= threshold {
			continue
		}
		used[i] = true
		for p := r.start; p < r.end; p++ {
			kept[p]++
		}
	}
	return used
}
