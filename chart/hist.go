// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistOpts controls Histogram.
type HistOpts struct {
	Title, XLabel, YLabel string
	// Density normalizes the bars to unit area and overlays a Gaussian
	// kernel density estimate.
	Density bool
	// MaxBins caps the number of bins.
	MaxBins int
	Color   color.Color
}

// DefaultHistOpts draws translucent blue bars with at most 50 bins.
var DefaultHistOpts = HistOpts{
	MaxBins: 50,
	Color:   color.NRGBA{R: 76, G: 114, B: 176, A: 160},
}

// kdePoints is the number of points the density curve is evaluated at.
const kdePoints = 200

// Bins returns the Freedman-Diaconis bin count for values, capped at max.
// Values with zero interquartile range use sqrt(n) bins.
func Bins(values []float64, max int) int {
	n := len(values)
	if n < 2 {
		return 1
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	h := 2 * iqr / math.Cbrt(float64(n))
	var bins int
	if h == 0 {
		bins = int(math.Sqrt(float64(n)))
	} else {
		bins = int(math.Ceil((sorted[n-1] - sorted[0]) / h))
	}
	if max > 0 && bins > max {
		bins = max
	}
	if bins < 1 {
		bins = 1
	}
	return bins
}

// ScottBandwidth returns the Gaussian kernel bandwidth for values using
// Scott's rule.  It is zero when the values have no spread.
func ScottBandwidth(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil) * math.Pow(float64(len(values)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of values with bandwidth
// bw at n evenly spaced points spanning three bandwidths past the data.
func KDE(values []float64, bw float64, n int) plotter.XYs {
	if len(values) == 0 || bw <= 0 || n < 2 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo -= 3 * bw
	hi += 3 * bw
	norm := 1 / (float64(len(values)) * bw * math.Sqrt(2*math.Pi))
	pts := make(plotter.XYs, n)
	for i := range pts {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		var sum float64
		for _, v := range values {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		pts[i].X = x
		pts[i].Y = sum * norm
	}
	return pts
}

// Histogram plots the distribution of values.
func Histogram(values []float64, opts HistOpts) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.Errorf("histogram %q: no values", opts.Title)
	}
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	h, err := plotter.NewHist(plotter.Values(values), Bins(values, opts.MaxBins))
	if err != nil {
		return nil, errors.Wrapf(err, "histogram %q", opts.Title)
	}
	h.LineStyle.Width = 0
	if opts.Color != nil {
		h.FillColor = opts.Color
	}
	// A single-valued sample has zero-width bins and cannot be normalized.
	if opts.Density && ScottBandwidth(values) > 0 {
		h.Normalize(1)
	}
	p.Add(h)

	if opts.Density {
		if pts := KDE(values, ScottBandwidth(values), kdePoints); pts != nil {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, errors.Wrapf(err, "histogram %q: density", opts.Title)
			}
			line.LineStyle.Width = vg.Points(1.5)
			if opts.Color != nil {
				c := color.NRGBAModel.Convert(opts.Color).(color.NRGBA)
				c.A = 255
				line.LineStyle.Color = c
			}
			p.Add(line)
		}
	}
	return p, nil
}
