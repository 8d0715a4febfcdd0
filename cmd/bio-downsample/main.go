// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

/*
bio-downsample keeps a subset of the reads in a SAM or BAM file so that every
reference position reaches the requested coverage where the input allows it,
and no read is kept that only adds coverage above it.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/covplot/downsample"
)

var (
	input             = flag.String("input", "", "Input SAM or BAM path (required)")
	output            = flag.String("output", "", "Output path; defaults to <input>.covfiltered.{sam,bam}")
	coverageThreshold = flag.Int("coverage-threshold", downsample.DefaultOpts.CoverageThreshold, "Coverage to keep at each position")
	genomeMaxLen      = flag.Int("genome-max-len", downsample.DefaultOpts.GenomeMaxLen, "Upper bound on the reference length")
	covFile           = flag.String("covfile", "", "Coverage carried over between runs, one byte per position; read if present and rewritten")
	qualSort          = flag.Bool("qual-sort", false, "Visit reads by descending alignment accuracy instead of in random order")
	seed              = flag.Int64("seed", downsample.DefaultOpts.Seed, "Shuffle seed; negative uses the clock")
	logDir            = flag.String("log-dir", downsample.DefaultOpts.LogDir, "Directory for coverage.txt, lengths_all.txt and lengths_sample.txt")
	noLogging         = flag.Bool("no-logging", false, "Don't write the coverage and read length logs")
	compressLogs      = flag.Bool("compress-logs", false, "Gzip the coverage and read length logs")
)

func bioDownsampleUsage() {
	fmt.Printf("Usage: %s -input reads.sam [OPTIONS]\n", os.Args[0])
	fmt.Printf("Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioDownsampleUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("Unexpected positional arguments %v; please check flag syntax", flag.Args())
	}
	if *input == "" {
		log.Fatalf("-input is required")
	}
	opts := downsample.Opts{
		Input:             *input,
		Output:            *output,
		CoverageThreshold: *coverageThreshold,
		GenomeMaxLen:      *genomeMaxLen,
		CoverageFile:      *covFile,
		QualSort:          *qualSort,
		Seed:              *seed,
		LogStats:          !*noLogging,
		LogDir:            *logDir,
		CompressLogs:      *compressLogs,
	}
	if _, err := downsample.Downsample(vcontext.Background(), opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
