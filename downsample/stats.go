// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package downsample

import (
	"math"

	"github.com/grailbio/base/log"
)

// endMargin is the number of bases at each genome end that are expected to
// have low coverage and are checked separately.
const endMargin = 50

// Stats summarizes a downsampling run.
type Stats struct {
	// Reads counts mapped reads; Unmapped counts records that were dropped
	// because they cover no reference bases.
	Reads, Kept, Unmapped int
	// MeanAccuracy and KeptMeanAccuracy average the fraction of match bases
	// per read.
	MeanAccuracy, KeptMeanAccuracy float64
	// Bases and KeptBases sum reference spans.
	Bases, KeptBases int
	// MinCoverage and KeptMinCoverage are the lowest nonzero-original depths
	// outside the genome ends.
	MinCoverage, KeptMinCoverage int
	// Dropped lists positions outside the genome ends whose original depth
	// reached the threshold but whose kept depth did not.
	Dropped []int
	// UnevenEnds lists positions within the genome ends whose kept depth
	// differs from the original.
	UnevenEnds []int
}

func computeStats(reads []read, used []bool, cov, kept []int, threshold int) Stats {
	s := Stats{Reads: len(reads)}
	var accuracy, keptAccuracy float64
	for i, r := range reads {
		accuracy += r.accuracy
		s.Bases += r.end - r.start
		if used[i] {
			s.Kept++
			keptAccuracy += r.accuracy
			s.KeptBases += r.end - r.start
		}
	}
	if s.Reads > 0 {
		s.MeanAccuracy = accuracy / float64(s.Reads)
	}
	if s.Kept > 0 {
		s.KeptMeanAccuracy = keptAccuracy / float64(s.Kept)
	}

	n := len(cov)
	minCov, keptMin := math.MaxInt32, math.MaxInt32
	for i := endMargin; i < n-endMargin; i++ {
		if cov[i] > 0 {
			if cov[i] < minCov {
				minCov = cov[i]
			}
			if kept[i] < keptMin {
				keptMin = kept[i]
			}
		}
		if cov[i] >= threshold && kept[i] < threshold {
			s.Dropped = append(s.Dropped, i)
		}
	}
	if minCov != math.MaxInt32 {
		s.MinCoverage, s.KeptMinCoverage = minCov, keptMin
	}
	for i := 0; i < endMargin && i < n; i++ {
		if cov[i] != kept[i] {
			s.UnevenEnds = append(s.UnevenEnds, i)
		}
		if j := n - 1 - i; j >= endMargin && cov[j] != kept[j] {
			s.UnevenEnds = append(s.UnevenEnds, j)
		}
	}
	return s
}

// Log prints s along with the per-position warnings.
func (s Stats) Log(cov, kept []int) {
	for _, i := range s.Dropped {
		log.Debug.Printf("coverage dropped below threshold at position %d: old %d, new %d", i, cov[i], kept[i])
	}
	for _, i := range s.UnevenEnds {
		log.Debug.Printf("uneven coverage near ends at position %d: old %d, new %d", i, cov[i], kept[i])
	}
	log.Printf("total read count (unfiltered): %d", s.Reads)
	log.Printf("unmapped records dropped: %d", s.Unmapped)
	log.Printf("downsampled read count: %d", s.Kept)
	log.Printf("overall average alignment accuracy: %.6f", s.MeanAccuracy)
	log.Printf("downsampled average alignment accuracy: %.6f", s.KeptMeanAccuracy)
	log.Printf("total bases covered (unfiltered): %d", s.Bases)
	log.Printf("downsampled bases covered: %d", s.KeptBases)
	log.Printf("old min coverage: %d", s.MinCoverage)
	log.Printf("downsampled min coverage: %d", s.KeptMinCoverage)
	if len(s.Dropped) > 0 {
		log.Printf("%d positions dropped below the coverage threshold", len(s.Dropped))
	}
	if len(s.UnevenEnds) > 0 {
		log.Printf("%d positions near the genome ends changed coverage", len(s.UnevenEnds))
	}
}
