// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freqmatrix

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/covplot/numfile"
)

// CountFilePath returns the path of the count file for threshold t under
// dir.  Homozygous-only counts use the "counts_homo_" prefix.
func CountFilePath(dir string, t Threshold, homozygous bool) string {
	prefix := "counts_"
	if homozygous {
		prefix = "counts_homo_"
	}
	return filepath.Join(dir, fmt.Sprintf("%s%d.txt", prefix, t))
}

// ReadCountFile parses a count file, one "<position> <frequency>" record per
// line.  A position listed twice keeps its last frequency.
func ReadCountFile(ctx context.Context, path string) (map[int]float64, error) {
	freqs := map[int]float64{}
	err := numfile.ScanPath(ctx, path, 2, func(lineNum int, tokens [][]byte) error {
		pos, err := numfile.ParseInt(lineNum, tokens[0])
		if err != nil {
			return err
		}
		freq, err := numfile.ParseFloat(lineNum, tokens[1])
		if err != nil {
			return err
		}
		freqs[pos] = freq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freqs, nil
}

// LoadSamples reads the count file of every threshold under dir, in
// Thresholds order.  All files are checked for existence before any is read,
// and the error names every missing one.
func LoadSamples(ctx context.Context, dir string, homozygous bool) ([]Sample, error) {
	var missing []string
	for _, t := range Thresholds {
		path := CountFilePath(dir, t, homozygous)
		if _, err := file.Stat(ctx, path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return nil, errors.E(errors.NotExist, "count files missing:", strings.Join(missing, ", "))
	}
	samples := make([]Sample, 0, len(Thresholds))
	for _, t := range Thresholds {
		path := CountFilePath(dir, t, homozygous)
		freqs, err := ReadCountFile(ctx, path)
		if err != nil {
			return nil, err
		}
		log.Debug.Printf("%s: %d positions", path, len(freqs))
		samples = append(samples, Sample{Threshold: t, Freqs: freqs})
	}
	return samples, nil
}
