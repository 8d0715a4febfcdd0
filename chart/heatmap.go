// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/covplot/freqmatrix"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// HeatmapOpts controls Heatmap.
type HeatmapOpts struct {
	Title, XLabel, YLabel string
	// KeyFontSize is the size of the (rotated) position labels.
	KeyFontSize vg.Length
	// PaletteSize is the number of cubehelix colours.  When every cell is
	// fully supported only the darkest one is used.
	PaletteSize int
}

// DefaultHeatmapOpts labels the axes for a SNP support heatmap.
var DefaultHeatmapOpts = HeatmapOpts{
	XLabel:      "SNP Position",
	YLabel:      "Coverage Filter",
	KeyFontSize: vg.Points(8),
	PaletteSize: 11,
}

// matrixGrid adapts a freqmatrix.Matrix to plotter.GridXYZ.  Grid row 0 is
// the bottom of the plot, so matrix rows are flipped to draw the first
// matrix row on top.
type matrixGrid struct {
	m *freqmatrix.Matrix
}

func (g matrixGrid) Dims() (c, r int) { return len(g.m.Keys), len(g.m.Rows) }

func (g matrixGrid) Z(c, r int) float64 { return g.m.Rows[len(g.m.Rows)-1-r][c] }

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }

// HeatmapPalette picks the palette for m: the full cubehelix ramp, or only
// its darkest colour when m.AllFull().
func HeatmapPalette(m *freqmatrix.Matrix, size int) palette.Palette {
	pal := Cubehelix(size, DefaultCubehelixOpts)
	if m.AllFull() {
		pal = Trim(pal, size-1)
	}
	return pal
}

// newHeatMap returns the cell plotter for m.  A constant matrix is drawn in
// the darkest colour when it is fully supported and in the lightest
// otherwise.
func newHeatMap(m *freqmatrix.Matrix, size int) *plotter.HeatMap {
	h := plotter.NewHeatMap(matrixGrid{m}, HeatmapPalette(m, size))
	if h.Max <= h.Min {
		if m.AllFull() {
			h.Min = h.Max - 1
		} else {
			h.Max = h.Min + 1
		}
	}
	return h
}

// Heatmap draws m with one cell per (threshold, position).  A matrix without
// columns cannot be drawn.
func Heatmap(m *freqmatrix.Matrix, opts HeatmapOpts) (*plot.Plot, error) {
	nCol, nRow := len(m.Keys), len(m.Rows)
	if nCol == 0 || nRow == 0 {
		return nil, errors.E(errors.Precondition, "heatmap: no positions to plot")
	}
	size := opts.PaletteSize
	if size < 1 {
		size = DefaultHeatmapOpts.PaletteSize
	}
	h := newHeatMap(m, size)

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(h)

	// Cell borders.
	border := func(x0, y0, x1, y1 float64) error {
		l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
		if err != nil {
			return err
		}
		l.LineStyle.Width = vg.Points(0.5)
		l.LineStyle.Color = color.Black
		p.Add(l)
		return nil
	}
	for r := 0; r <= nRow; r++ {
		y := float64(r) - 0.5
		if err := border(-0.5, y, float64(nCol)-0.5, y); err != nil {
			return nil, errors.E(err, "heatmap border")
		}
	}
	for c := 0; c <= nCol; c++ {
		x := float64(c) - 0.5
		if err := border(x, -0.5, x, float64(nRow)-0.5); err != nil {
			return nil, errors.E(err, "heatmap border")
		}
	}

	xTicks := make(plot.ConstantTicks, nCol)
	for c, k := range m.Keys {
		xTicks[c] = plot.Tick{Value: float64(c), Label: strconv.Itoa(k)}
	}
	yTicks := make(plot.ConstantTicks, nRow)
	for r := range yTicks {
		yTicks[r] = plot.Tick{Value: float64(r), Label: m.Labels[nRow-1-r]}
	}
	p.X.Tick.Marker = xTicks
	p.Y.Tick.Marker = yTicks
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	if opts.KeyFontSize > 0 {
		p.X.Tick.Label.Font.Size = opts.KeyFontSize
	}
	p.X.Min, p.X.Max = -0.5, float64(nCol)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(nRow)-0.5
	return p, nil
}

// HeatmapTitle returns the figure title for a SNP support heatmap of the
// named sample.
func HeatmapTitle(sample string, homozygous bool) string {
	title := "SNP Support in Downsampled Reads"
	if homozygous {
		title = "Homozygous " + title
	}
	if sample != "" {
		title += " (" + sample + ")"
	}
	return title
}
