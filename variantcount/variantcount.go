// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package variantcount computes, for every variant position, the fraction of
// downsampled replicates whose calls include it.  Its output is the count
// file format read by package freqmatrix.
package variantcount

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/covplot/freqmatrix"
)

// Opts configures Count.
type Opts struct {
	// Homozygous restricts counting to records whose first sample genotype is
	// 1/1 or 1|1.
	Homozygous bool
}

// Entry is one line of a count file.
type Entry struct {
	Pos  int
	Freq float64
}

// Result holds the per-position support of one listing.
type Result struct {
	// Samples is the number of replicate separators seen.
	Samples int
	// Entries is sorted by position.
	Entries []Entry
}

// vcfMinFields is the number of tab-separated fields in a VCF record with a
// sample column.
const vcfMinFields = 10

// Count reads a listing of concatenated per-replicate VCF records.  A line
// holding a single field, or a blank line, separates replicates; a line with
// at least ten fields is a record whose second field is its position.  #
// headers and other lines are skipped.
func Count(r io.Reader, opts Opts) (Result, error) {
	occurrences := map[int]int{}
	var samples int
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		switch {
		case len(fields) >= vcfMinFields:
			if opts.Homozygous && !isHomAlt(fields[9]) {
				continue
			}
			pos, err := strconv.Atoi(fields[1])
			if err != nil {
				return Result{}, errors.E(errors.Invalid, fmt.Sprintf("line %d: bad position %q", lineNum, fields[1]))
			}
			occurrences[pos]++
		case len(fields) == 1:
			samples++
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}
	if samples == 0 {
		return Result{}, errors.E(errors.Precondition, "no replicate separators found")
	}
	res := Result{Samples: samples, Entries: make([]Entry, 0, len(occurrences))}
	for pos, n := range occurrences {
		res.Entries = append(res.Entries, Entry{Pos: pos, Freq: float64(n) / float64(samples)})
	}
	sort.Slice(res.Entries, func(i, j int) bool { return res.Entries[i].Pos < res.Entries[j].Pos })
	return res, nil
}

func isHomAlt(genotype string) bool {
	return strings.HasPrefix(genotype, "1/1") || strings.HasPrefix(genotype, "1|1")
}

// WriteCounts writes entries in the "<pos> <freq>" count file format.
func WriteCounts(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%d %s\n", e.Pos, strconv.FormatFloat(e.Freq, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ListingPath returns dir/vcfs_<t>.txt.
func ListingPath(dir string, t freqmatrix.Threshold) string {
	return filepath.Join(dir, fmt.Sprintf("vcfs_%d.txt", t))
}

// openListing opens the listing for threshold t under dir, falling back to
// a gzipped copy when the plain file does not exist.
func openListing(ctx context.Context, dir string, t freqmatrix.Threshold) (file.File, error) {
	inPath := ListingPath(dir, t)
	in, err := file.Open(ctx, inPath)
	if err == nil || !errors.Is(errors.NotExist, err) {
		return in, err
	}
	if gz, err2 := file.Open(ctx, inPath+".gz"); err2 == nil {
		return gz, nil
	}
	return nil, err
}

// Run converts the listing for threshold t under dir into its count file,
// returning the path written.  The listing may be compressed.
func Run(ctx context.Context, dir string, t freqmatrix.Threshold, opts Opts) (outPath string, err error) {
	in, err := openListing(ctx, dir, t)
	if err != nil {
		return "", errors.E(err, "open", ListingPath(dir, t))
	}
	inPath := in.Name()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, inPath); u != nil {
		r = u
	}
	res, err := Count(r, opts)
	if err2 := in.Close(ctx); err2 != nil && err == nil {
		err = err2
	}
	if err != nil {
		return "", errors.E(err, inPath)
	}

	outPath = freqmatrix.CountFilePath(dir, t, opts.Homozygous)
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return "", errors.E(err, "create", outPath)
	}
	defer func() {
		if err2 := out.Close(ctx); err2 != nil && err == nil {
			err = errors.E(err2, "close", outPath)
		}
	}()
	if err = WriteCounts(out.Writer(ctx), res.Entries); err != nil {
		return "", errors.E(err, "write", outPath)
	}
	log.Printf("%s: %d replicates, %d positions -> %s", inPath, res.Samples, len(res.Entries), outPath)
	return outPath, nil
}
