// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package chart

import (
	"image"
	"image/color"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/covplot/freqmatrix"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

func TestCubehelix(t *testing.T) {
	pal := Cubehelix(11, DefaultCubehelixOpts).Colors()
	require.Equal(t, 11, len(pal))
	for i := 1; i < len(pal); i++ {
		assert.True(t, luminance(pal[i]) < luminance(pal[i-1]), "colour %d is not darker than %d", i, i-1)
	}

	rev := DefaultCubehelixOpts
	rev.Reverse = true
	rpal := Cubehelix(11, rev).Colors()
	assert.Equal(t, pal[0], rpal[10])
	assert.Equal(t, pal[10], rpal[0])

	assert.Equal(t, 1, len(Cubehelix(1, DefaultCubehelixOpts).Colors()))
}

func TestTrim(t *testing.T) {
	pal := Cubehelix(11, DefaultCubehelixOpts)
	trimmed := Trim(pal, 10).Colors()
	require.Equal(t, 1, len(trimmed))
	assert.Equal(t, pal.Colors()[10], trimmed[0])
	assert.Equal(t, 1, len(Trim(pal, 50).Colors()))
	assert.Equal(t, 11, len(Trim(pal, -1).Colors()))
}

func TestBins(t *testing.T) {
	tests := []struct {
		values []float64
		max    int
		want   int
	}{
		{nil, 50, 1},
		{[]float64{3}, 50, 1},
		// Zero IQR falls back to sqrt(n).
		{[]float64{5, 5, 5, 5, 5, 5, 5, 5, 5}, 50, 3},
		{[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 1000}, 50, 50},
		{[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 1000}, 10, 10},
	}
	for _, tt := range tests {
		expect.EQ(t, Bins(tt.values, tt.max), tt.want, "values %v", tt.values)
	}
	n := Bins([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 50)
	assert.True(t, n >= 1 && n <= 8, "bins %d", n)
}

func TestKDE(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	bw := ScottBandwidth(values)
	require.True(t, bw > 0)
	pts := KDE(values, bw, 400)
	require.Equal(t, 400, len(pts))

	// Trapezoid integral over +-3 bandwidths is close to 1.
	var area float64
	for i := 1; i < len(pts); i++ {
		area += (pts[i].X - pts[i-1].X) * (pts[i].Y + pts[i-1].Y) / 2
	}
	assert.InEpsilon(t, 1.0, area, 0.01)

	peak := pts[0]
	for _, p := range pts {
		if p.Y > peak.Y {
			peak = p
		}
	}
	assert.True(t, math.Abs(peak.X-3) < 0.2, "peak at %v", peak.X)

	assert.Nil(t, KDE([]float64{2, 2}, ScottBandwidth([]float64{2, 2}), 10))
}

func TestHistogram(t *testing.T) {
	_, err := Histogram(nil, DefaultHistOpts)
	assert.Error(t, err)

	opts := DefaultHistOpts
	opts.Title = "Old coverage"
	opts.Density = true
	p, err := Histogram([]float64{10, 12, 12, 15, 40, 41, 41, 41}, opts)
	require.NoError(t, err)
	assert.Equal(t, "Old coverage", p.Title.Text)
}

func TestSampledTicks(t *testing.T) {
	ticks := SampledTicks(120, 100, 50)
	require.Equal(t, 3, len(ticks))
	assert.Equal(t, plot.Tick{Value: 0, Label: "0"}, ticks[0])
	assert.Equal(t, plot.Tick{Value: 50, Label: "5000"}, ticks[1])
	assert.Equal(t, plot.Tick{Value: 100, Label: "10000"}, ticks[2])
}

func TestHeatmapPalette(t *testing.T) {
	full := freqmatrix.Build([]freqmatrix.Sample{
		{Threshold: 30, Freqs: map[int]float64{1: 1.0}},
		{Threshold: 50, Freqs: map[int]float64{1: 1.0}},
	})
	assert.Equal(t, 1, len(HeatmapPalette(full, 11).Colors()))

	partial := freqmatrix.Build([]freqmatrix.Sample{
		{Threshold: 30, Freqs: map[int]float64{1: 1.0}},
		{Threshold: 50, Freqs: map[int]float64{1: 0.9}},
	})
	assert.Equal(t, 11, len(HeatmapPalette(partial, 11).Colors()))
}

func TestHeatmapEmpty(t *testing.T) {
	m := freqmatrix.Build([]freqmatrix.Sample{{Threshold: 30, Freqs: map[int]float64{}}})
	_, err := Heatmap(m, DefaultHeatmapOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Precondition, err))
}

func TestMatrixGrid(t *testing.T) {
	m := freqmatrix.Build([]freqmatrix.Sample{
		{Threshold: 30, Freqs: map[int]float64{1: 0.5, 3: 1.0}},
		{Threshold: 10000, Freqs: map[int]float64{2: 0.8}},
	})
	g := matrixGrid{m}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	// Grid row 0 is the bottom, i.e. the last sample.
	assert.Equal(t, 0.8, g.Z(1, 0))
	assert.Equal(t, 0.5, g.Z(0, 1))
	assert.Equal(t, 1.0, g.Z(2, 1))
}

func decodePNG(t *testing.T, path string) image.Config {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	return cfg
}

// hasColor reports whether any pixel of the PNG at path is exactly c.
func hasColor(t *testing.T, path string, c color.Color) bool {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	wr, wg, wb, wa := c.RGBA()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == wr && g == wg && bl == wb && a == wa {
				return true
			}
		}
	}
	return false
}

func TestConstantHeatmapScale(t *testing.T) {
	tests := []struct {
		freq float64
		// want is the palette index every cell is drawn with.
		want int
	}{
		{0, 0},
		{0.5, 0},
		{1, 0}, // all full: the palette is trimmed to its darkest colour
	}
	for _, tt := range tests {
		m := freqmatrix.Build([]freqmatrix.Sample{
			{Threshold: 30, Freqs: map[int]float64{241: tt.freq, 3037: tt.freq}},
			{Threshold: 50, Freqs: map[int]float64{241: tt.freq, 3037: tt.freq}},
		})
		h := newHeatMap(m, 11)
		require.True(t, h.Max > h.Min, "freq %v", tt.freq)
		colors := h.Palette.Colors()
		idx := int((tt.freq - h.Min) * float64(len(colors)-1) / (h.Max - h.Min))
		expect.EQ(t, idx, tt.want, tt.freq)
	}
}

func TestHeatmapRender(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	pal := Cubehelix(11, DefaultCubehelixOpts).Colors()
	lightest, darkest := pal[0], pal[len(pal)-1]

	render := func(name string, freqs ...float64) string {
		var samples []freqmatrix.Sample
		for i, f := range freqs {
			samples = append(samples, freqmatrix.Sample{
				Threshold: freqmatrix.Thresholds[i],
				Freqs:     map[int]float64{241: f},
			})
		}
		p, err := Heatmap(freqmatrix.Build(samples), DefaultHeatmapOpts)
		require.NoError(t, err)
		path := filepath.Join(tmpdir, name)
		require.NoError(t, Save(ctx, p, 4*vg.Inch, 3*vg.Inch, path))
		return path
	}

	// Every cell fully supported: drawn with the single darkest colour.
	path := render("full.png", 1, 1)
	assert.True(t, hasColor(t, path, darkest))
	assert.False(t, hasColor(t, path, lightest))

	// Constant partial support is drawn light, not as full support.
	path = render("half.png", 0.5, 0.5)
	assert.True(t, hasColor(t, path, lightest))
	assert.False(t, hasColor(t, path, darkest))
}

func TestSave(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()

	m := freqmatrix.Build([]freqmatrix.Sample{
		{Threshold: 30, Freqs: map[int]float64{241: 0.5, 3037: 1.0}},
		{Threshold: 50, Freqs: map[int]float64{1059: 0.8}},
		{Threshold: 10000, Freqs: map[int]float64{241: 1.0, 1059: 1.0, 3037: 1.0}},
	})
	opts := DefaultHeatmapOpts
	opts.Title = HeatmapTitle("JHU004", false)
	p, err := Heatmap(m, opts)
	require.NoError(t, err)
	path := filepath.Join(tmpdir, "snps.png")
	require.NoError(t, Save(ctx, p, 20*vg.Inch, 6*vg.Inch, path))
	cfg := decodePNG(t, path)
	assert.True(t, cfg.Width > cfg.Height)

	bars, err := SampledBars([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 3, 2, DefaultBarOpts)
	require.NoError(t, err)
	require.NoError(t, Save(ctx, bars, 4*vg.Inch, 3*vg.Inch, filepath.Join(tmpdir, "bars.svg")))

	var panels []*plot.Plot
	for _, title := range []string{"Full Dataset", "Sample (old)", "Sample (even_strand)"} {
		o := DefaultHistOpts
		o.Title = title
		h, err := Histogram([]float64{0.1, 0.4, 0.5, 0.5, 0.6, 0.9}, o)
		require.NoError(t, err)
		h.HideY()
		panels = append(panels, h)
	}
	path = filepath.Join(tmpdir, "sb.png")
	require.NoError(t, SaveRow(ctx, "Strand Bias", panels, 9*vg.Inch, 3*vg.Inch, path))
	decodePNG(t, path)

	assert.Error(t, SaveRow(ctx, "", panels, 9*vg.Inch, 3*vg.Inch, filepath.Join(tmpdir, "sb.pdf")))
}

func TestHeatmapTitle(t *testing.T) {
	assert.Equal(t, "SNP Support in Downsampled Reads (JHU004)", HeatmapTitle("JHU004", false))
	assert.Equal(t, "Homozygous SNP Support in Downsampled Reads", HeatmapTitle("", true))
}
