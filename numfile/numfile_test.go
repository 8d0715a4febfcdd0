// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package numfile

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokens(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want []string
	}{
		{"", 2, []string{}},
		{"   \t ", 2, []string{}},
		{"12 0.5", 2, []string{"12", "0.5"}},
		{"  12\t\t0.5  extra", 2, []string{"12", "0.5"}},
		{"12", 2, []string{"12"}},
	}
	for _, tt := range tests {
		tokens := make([][]byte, tt.n)
		n := getTokens(tokens, []byte(tt.line))
		got := []string{}
		for _, tok := range tokens[:n] {
			got = append(got, string(tok))
		}
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}
}

func TestScan(t *testing.T) {
	var lines []int
	err := Scan(strings.NewReader("1 2\n\n3 4 5\n"), 2, func(lineNum int, tokens [][]byte) error {
		lines = append(lines, lineNum)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, lines)

	err = Scan(strings.NewReader("1 2\n3\n"), 2, func(int, [][]byte) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadValues(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	path := filepath.Join(tmpdir, "lengths_all.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("1500\n230\n\n0.25\n"), 0644))
	vals, err := ReadValues(ctx, path)
	expect.NoError(t, err)
	expect.EQ(t, vals, []float64{1500, 230, 0.25})
}

func TestReadValuesErrors(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	_, err := ReadValues(ctx, filepath.Join(tmpdir, "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")

	path := filepath.Join(tmpdir, "bad.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("1\nx\n"), 0644))
	_, err = ReadValues(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestReadColumnsGzip(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte("10 5\n20 7\n30 9\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	path := filepath.Join(tmpdir, "coverage.txt.gz")
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))

	cols, err := ReadColumns(ctx, path, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{10, 20, 30}, {5, 7, 9}}, cols)
}

func TestSubsample(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6}
	assert.Equal(t, []float64{0, 3, 6}, Subsample(xs, 3))
	assert.Equal(t, []float64{0, 5}, Subsample(xs, 5))
	assert.Equal(t, xs, Subsample(xs, 1))
	assert.Equal(t, []float64{}, Subsample(nil, 4))
}
