// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package numfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// LineFunc is called once per non-blank line with the first n tokens of the
// line.  lineNum is 1-based.  The token slices are only valid for the duration
// of the call.
type LineFunc func(lineNum int, tokens [][]byte) error

// Scan calls fn for every non-blank line of r that has at least n
// whitespace-separated tokens.  A non-blank line with fewer than n tokens is
// an error.  Extra tokens are ignored.
func Scan(r io.Reader, n int, fn LineFunc) error {
	tokens := make([][]byte, n)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		nTok := getTokens(tokens, line)
		if nTok == 0 {
			continue
		}
		if nTok < n {
			return errors.E(errors.Invalid, fmt.Sprintf("line %d: expected %d fields, found %d", lineNum, n, nTok))
		}
		if err := fn(lineNum, tokens); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ScanPath opens path (decompressing it if its name says so) and runs Scan
// over its contents.  Errors are annotated with the path.
func ScanPath(ctx context.Context, path string, n int, fn LineFunc) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		if errors.Is(errors.NotExist, err) {
			return errors.E(errors.NotExist, err, "input file missing:", path)
		}
		return errors.E(err, "open", path)
	}
	defer func() {
		if err2 := in.Close(ctx); err2 != nil && err == nil {
			err = errors.E(err2, "close", path)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if err = Scan(r, n, fn); err != nil {
		return errors.E(err, path)
	}
	log.Debug.Printf("numfile: scanned %s", path)
	return nil
}

// ParseFloat parses a numeric token.  Integer tokens are accepted as well.
func ParseFloat(lineNum int, tok []byte) (float64, error) {
	v, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("line %d: bad number %q", lineNum, tok))
	}
	return v, nil
}

// ParseInt parses an integer token.
func ParseInt(lineNum int, tok []byte) (int, error) {
	v, err := strconv.Atoi(string(tok))
	if err != nil {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("line %d: bad integer %q", lineNum, tok))
	}
	return v, nil
}

// ReadValues reads one number per line from path.  Only the first token of
// each line is used.
func ReadValues(ctx context.Context, path string) ([]float64, error) {
	var vals []float64
	err := ScanPath(ctx, path, 1, func(lineNum int, tokens [][]byte) error {
		v, err := ParseFloat(lineNum, tokens[0])
		if err != nil {
			return err
		}
		vals = append(vals, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vals, nil
}

// ReadColumns reads the first n whitespace-separated numbers of every line
// in path.  The result is column-major: cols[i][j] is field i of line j.
func ReadColumns(ctx context.Context, path string, n int) ([][]float64, error) {
	cols := make([][]float64, n)
	err := ScanPath(ctx, path, n, func(lineNum int, tokens [][]byte) error {
		for i := range cols {
			v, err := ParseFloat(lineNum, tokens[i])
			if err != nil {
				return err
			}
			cols[i] = append(cols[i], v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// Subsample returns xs[0], xs[every], xs[2*every], ...
func Subsample(xs []float64, every int) []float64 {
	if every <= 1 {
		return append([]float64(nil), xs...)
	}
	out := make([]float64, 0, (len(xs)+every-1)/every)
	for i := 0; i < len(xs); i += every {
		out = append(out, xs[i])
	}
	return out
}
