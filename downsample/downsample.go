// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package downsample

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
)

// Opts configures Downsample.
type Opts struct {
	// Input is a SAM or BAM file; the format is taken from the extension.
	Input string
	// Output defaults to the input path with ".covfiltered" inserted before
	// the extension.  A ".bam" output is written as BAM, anything else as SAM.
	Output string
	// CoverageThreshold is the depth to keep at every base, where the input
	// has it.
	CoverageThreshold int
	// GenomeMaxLen bounds the reference length.
	GenomeMaxLen int
	// CoverageFile, if set, holds one byte of kept depth per position.  An
	// existing non-empty file seeds the kept coverage, and the file is
	// rewritten afterwards.
	CoverageFile string
	// QualSort visits reads best-alignment-first instead of shuffling.
	QualSort bool
	// Seed seeds the shuffle; a negative seed uses the clock.
	Seed int64
	// LogStats writes coverage.txt, lengths_all.txt and lengths_sample.txt
	// to LogDir.
	LogStats bool
	LogDir   string
	// CompressLogs gzips the LogStats files.
	CompressLogs bool
}

// DefaultOpts holds the default settings.
var DefaultOpts = Opts{
	CoverageThreshold: 50,
	GenomeMaxLen:      31000,
	Seed:              -1,
	LogStats:          true,
	LogDir:            ".",
}

// Names of the LogStats files.
const (
	CoverageLog      = "coverage.txt"
	AllLengthsLog    = "lengths_all.txt"
	SampleLengthsLog = "lengths_sample.txt"
)

// DefaultOutputPath returns the output path used when Opts.Output is empty.
func DefaultOutputPath(input string) string {
	ext := ".sam"
	if isBAM(input) {
		ext = ".bam"
	}
	return strings.TrimSuffix(input, ext) + ".covfiltered" + ext
}

func isBAM(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".bam")
}

// readRecords reads the header and every record of path.
func readRecords(ctx context.Context, path string) (header *sam.Header, recs []*sam.Record, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	defer func() {
		if err2 := in.Close(ctx); err2 != nil && err == nil {
			err = errors.E(err2, "close", path)
		}
	}()
	var next func() (*sam.Record, error)
	if isBAM(path) {
		r, err := bam.NewReader(in.Reader(ctx), 1)
		if err != nil {
			return nil, nil, errors.E(err, "read BAM header", path)
		}
		defer r.Close() // nolint: errcheck
		header, next = r.Header(), r.Read
	} else {
		r, err := sam.NewReader(bufio.NewReaderSize(in.Reader(ctx), 1<<20))
		if err != nil {
			return nil, nil, errors.E(err, "read SAM header", path)
		}
		header, next = r.Header(), r.Read
	}
	for {
		rec, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.E(err, fmt.Sprintf("%s: record %d", path, len(recs)+1))
		}
		recs = append(recs, rec)
	}
	return header, recs, nil
}

// writeRecords writes the records of recs whose used entry is set.
func writeRecords(ctx context.Context, path string, header *sam.Header, recs []*sam.Record, used []bool) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if err2 := out.Close(ctx); err2 != nil && err == nil {
			err = errors.E(err2, "close", path)
		}
	}()
	if isBAM(path) {
		w, err := bam.NewWriter(out.Writer(ctx), header, 1)
		if err != nil {
			return errors.E(err, "write BAM header", path)
		}
		for i, rec := range recs {
			if used[i] {
				if err := w.Write(rec); err != nil {
					return errors.E(err, "write", path)
				}
			}
		}
		return w.Close()
	}
	bw := bufio.NewWriter(out.Writer(ctx))
	w, err := sam.NewWriter(bw, header, sam.FlagDecimal)
	if err != nil {
		return errors.E(err, "write SAM header", path)
	}
	for i, rec := range recs {
		if used[i] {
			if err := w.Write(rec); err != nil {
				return errors.E(err, "write", path)
			}
		}
	}
	return bw.Flush()
}

// loadCoverageFile adds the depths stored in path to kept.  A missing or
// empty file adds nothing.
func loadCoverageFile(ctx context.Context, path string, kept []int) error {
	if info, err := file.Stat(ctx, path); err != nil || info.Size() == 0 {
		return nil
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	buf, err := ioutil.ReadAll(in.Reader(ctx))
	if err2 := in.Close(ctx); err2 != nil && err == nil {
		err = err2
	}
	if err != nil {
		return errors.E(err, "read", path)
	}
	for i := 0; i < len(buf) && i < len(kept); i++ {
		kept[i] += int(buf[i])
	}
	log.Printf("%s: loaded %d positions of prior coverage", path, len(buf))
	return nil
}

// storeCoverageFile writes kept to path, one byte per position, clamped to
// threshold.
func storeCoverageFile(ctx context.Context, path string, kept []int, threshold int) error {
	limit := threshold
	if limit > 255 {
		limit = 255
	}
	buf := make([]byte, len(kept))
	for i, c := range kept {
		if c > limit {
			c = limit
		}
		buf[i] = byte(c)
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	if _, err = out.Writer(ctx).Write(buf); err != nil {
		out.Close(ctx) // nolint: errcheck
		return errors.E(err, "write", path)
	}
	return out.Close(ctx)
}

// writeLog creates dir/name (gzipped, with a ".gz" suffix, if compress) and
// fills it with fn.
func writeLog(ctx context.Context, dir, name string, compress bool, fn func(w io.Writer) error) (err error) {
	path := filepath.Join(dir, name)
	if compress {
		path += ".gz"
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if err2 := out.Close(ctx); err2 != nil && err == nil {
			err = errors.E(err2, "close", path)
		}
	}()
	var w io.Writer = out.Writer(ctx)
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(w)
		w = gz
	}
	bw := bufio.NewWriter(w)
	if err = fn(bw); err != nil {
		return errors.E(err, "write", path)
	}
	if err = bw.Flush(); err != nil {
		return errors.E(err, "write", path)
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			return errors.E(err, "write", path)
		}
	}
	return nil
}

func writeLogs(ctx context.Context, opts Opts, reads []read, used []bool, cov, kept []int) error {
	err := writeLog(ctx, opts.LogDir, CoverageLog, opts.CompressLogs, func(w io.Writer) error {
		for i, c := range cov {
			if c > 0 {
				if _, err := fmt.Fprintf(w, "%d %d\n", c, kept[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	err = writeLog(ctx, opts.LogDir, AllLengthsLog, opts.CompressLogs, func(w io.Writer) error {
		for _, r := range reads {
			if _, err := fmt.Fprintf(w, "%d\n", r.length); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return writeLog(ctx, opts.LogDir, SampleLengthsLog, opts.CompressLogs, func(w io.Writer) error {
		for i, r := range reads {
			if used[i] {
				if _, err := fmt.Fprintf(w, "%d\n", r.length); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Downsample reads opts.Input, keeps reads until every base reaches
// opts.CoverageThreshold where possible, and writes the kept records, in
// input order, to the output path.
func Downsample(ctx context.Context, opts Opts) (Stats, error) {
	if opts.Input == "" {
		return Stats{}, errors.E(errors.Invalid, "no input path")
	}
	if opts.CoverageThreshold < 1 || opts.GenomeMaxLen < 1 {
		return Stats{}, errors.E(errors.Invalid,
			fmt.Sprintf("coverage threshold (%d) and genome length (%d) must be positive", opts.CoverageThreshold, opts.GenomeMaxLen))
	}
	output := opts.Output
	if output == "" {
		output = DefaultOutputPath(opts.Input)
	}

	header, recs, err := readRecords(ctx, opts.Input)
	if err != nil {
		return Stats{}, err
	}
	reads := make([]read, 0, len(recs))
	for i, rec := range recs {
		r, ok := newRead(i, rec)
		if !ok {
			continue
		}
		if r.end > opts.GenomeMaxLen {
			return Stats{}, errors.E(errors.Precondition,
				fmt.Sprintf("read %s ends at %d, past genome length %d", rec.Name, r.end, opts.GenomeMaxLen))
		}
		reads = append(reads, r)
	}
	log.Printf("%s: %d records, %d mapped", opts.Input, len(recs), len(reads))

	cov := coverage(reads, opts.GenomeMaxLen)
	kept := make([]int, opts.GenomeMaxLen)
	if opts.CoverageFile != "" {
		if err := loadCoverageFile(ctx, opts.CoverageFile, kept); err != nil {
			return Stats{}, err
		}
	}
	seed := opts.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	order := visitOrder(reads, opts.QualSort, rand.New(rand.NewSource(seed)))
	usedRead := selectReads(reads, order, kept, opts.CoverageThreshold)

	stats := computeStats(reads, usedRead, cov, kept, opts.CoverageThreshold)
	stats.Unmapped = len(recs) - len(reads)
	stats.Log(cov, kept)

	usedRec := make([]bool, len(recs))
	for i, r := range reads {
		usedRec[r.index] = usedRead[i]
	}
	if err := writeRecords(ctx, output, header, recs, usedRec); err != nil {
		return stats, err
	}
	log.Printf("wrote %d records to %s", stats.Kept, output)

	if opts.CoverageFile != "" {
		if err := storeCoverageFile(ctx, opts.CoverageFile, kept, opts.CoverageThreshold); err != nil {
			return stats, err
		}
	}
	if opts.LogStats {
		if err := writeLogs(ctx, opts, reads, usedRead, cov, kept); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
