// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freqmatrix

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func samplesOf(freqs ...map[int]float64) []Sample {
	samples := make([]Sample, len(freqs))
	for i, f := range freqs {
		samples[i] = Sample{Threshold: Thresholds[i%len(Thresholds)], Freqs: f}
	}
	return samples
}

func TestBuild(t *testing.T) {
	tests := []struct {
		samples []Sample
		keys    []int
		rows    [][]float64
		allFull bool
	}{
		{
			samplesOf(map[int]float64{1: 0.5, 3: 1.0}, map[int]float64{2: 0.8}),
			[]int{1, 2, 3},
			[][]float64{{0.5, 0.0, 1.0}, {0.0, 0.8, 0.0}},
			false,
		},
		{
			samplesOf(map[int]float64{}, map[int]float64{}),
			[]int{},
			[][]float64{{}, {}},
			true,
		},
		{
			samplesOf(map[int]float64{1: 1.0}, map[int]float64{1: 1.0}),
			[]int{1},
			[][]float64{{1.0}, {1.0}},
			true,
		},
		{
			samplesOf(map[int]float64{1: 1.0}, map[int]float64{1: 0.9}),
			[]int{1},
			[][]float64{{1.0}, {0.9}},
			false,
		},
		{
			// A position absent from one filter zero-fills that row.
			samplesOf(map[int]float64{5: 1.0, 9: 1.0}, map[int]float64{9: 1.0}),
			[]int{5, 9},
			[][]float64{{1.0, 1.0}, {0.0, 1.0}},
			false,
		},
		{
			samplesOf(),
			[]int{},
			[][]float64{},
			true,
		},
	}
	for _, tt := range tests {
		m := Build(tt.samples)
		expect.EQ(t, m.Keys, tt.keys)
		expect.EQ(t, m.Rows, tt.rows)
		expect.EQ(t, m.AllFull(), tt.allFull)
		expect.EQ(t, len(m.Labels), len(tt.samples))
	}
}

func TestMatrixProperties(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 50; iter++ {
		samples := make([]Sample, 1+r.Intn(len(Thresholds)))
		for i := range samples {
			freqs := map[int]float64{}
			for n := r.Intn(20); n > 0; n-- {
				freqs[r.Intn(100)-10] = float64(r.Intn(11)) / 10
			}
			samples[i] = Sample{Threshold: Thresholds[i], Freqs: freqs}
		}
		keys := BuildKeyUniverse(samples)
		for i := 1; i < len(keys); i++ {
			assert.True(t, keys[i-1] < keys[i], "keys not strictly ascending: %v", keys)
		}
		col := map[int]int{}
		for j, k := range keys {
			col[k] = j
		}

		rows := BuildMatrix(samples, keys)
		assert.Equal(t, len(samples), len(rows))
		for i, s := range samples {
			assert.Equal(t, len(keys), len(rows[i]))
			for k, v := range s.Freqs {
				j, ok := col[k]
				assert.True(t, ok, "key %d missing from universe", k)
				assert.Equal(t, v, rows[i][j])
			}
			for j, k := range keys {
				if _, ok := s.Freqs[k]; !ok {
					assert.Equal(t, 0.0, rows[i][j])
				}
			}
		}

		// Reversing the sample order leaves the universe unchanged, and a
		// rebuild is identical.
		reversed := make([]Sample, len(samples))
		for i, s := range samples {
			reversed[len(samples)-1-i] = s
		}
		assert.Equal(t, keys, BuildKeyUniverse(reversed))
		assert.Equal(t, rows, BuildMatrix(samples, BuildKeyUniverse(samples)))
	}
}

func TestThresholdLabel(t *testing.T) {
	labels := []string{}
	for _, th := range Thresholds {
		labels = append(labels, th.Label())
	}
	assert.Equal(t, []string{"30", "50", "100", "200", "500", "1000", "All"}, labels)
}
