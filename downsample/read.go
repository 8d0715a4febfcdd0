// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package downsample

import (
	"github.com/grailbio/hts/sam"
)

// read is the part of an alignment the selection looks at.
type read struct {
	// index is the record's position in the input.
	index int
	// [start, end) is the reference interval covered.
	start, end int
	// length is the query length (M/I/S/=/X).
	length int
	// accuracy is the fraction of query bases aligned as matches (M/=).
	accuracy float64
}

// cigarLengths returns the reference span, query length and number of
// match bases of cigar.
func cigarLengths(cigar sam.Cigar) (ref, query, matches int) {
	for _, co := range cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual:
			ref += n
			query += n
			matches += n
		case sam.CigarMismatch:
			ref += n
			query += n
		case sam.CigarDeletion, sam.CigarSkipped:
			ref += n
		case sam.CigarInsertion, sam.CigarSoftClipped:
			query += n
		}
	}
	return
}

// newRead summarizes rec.  ok is false for unmapped records and records that
// cover no reference bases.
func newRead(index int, rec *sam.Record) (r read, ok bool) {
	if rec.Flags&sam.Unmapped != 0 || rec.Pos < 0 {
		return read{}, false
	}
	ref, query, matches := cigarLengths(rec.Cigar)
	if ref == 0 {
		return read{}, false
	}
	r = read{index: index, start: rec.Pos, end: rec.Pos + ref, length: query}
	if query > 0 {
		r.accuracy = float64(matches) / float64(query)
	}
	return r, true
}
