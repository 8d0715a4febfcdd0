// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"strconv"

	"github.com/grailbio/covplot/numfile"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// BarOpts controls SampledBars.
type BarOpts struct {
	Title, XLabel, YLabel string
	// Width is the width of the figure the chart will be saved at; bars are
	// sized to fill it.
	Width vg.Length
	Color color.Color
}

// DefaultBarOpts is used for per-position coverage charts.
var DefaultBarOpts = BarOpts{
	XLabel: "Position (bp)",
	YLabel: "Coverage",
	Width:  6 * vg.Inch,
	Color:  color.NRGBA{R: 76, G: 114, B: 176, A: 255},
}

// SampledTicks returns x-axis ticks for n bars where bar i stands for
// position i*every.  Only every labelEvery'th bar gets a label.
func SampledTicks(n, every, labelEvery int) plot.ConstantTicks {
	if labelEvery < 1 {
		labelEvery = 1
	}
	var ticks plot.ConstantTicks
	for i := 0; i < n; i += labelEvery {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: strconv.Itoa(i * every)})
	}
	return ticks
}

// SampledBars draws every every'th value as a bar, labelling the x axis with
// the original position of each bar.
func SampledBars(values []float64, every, labelEvery int, opts BarOpts) (*plot.Plot, error) {
	if every < 1 {
		every = 1
	}
	sampled := numfile.Subsample(values, every)
	if len(sampled) == 0 {
		return nil, errors.Errorf("bar chart %q: no values", opts.Title)
	}
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	width := opts.Width
	if width <= 0 {
		width = DefaultBarOpts.Width
	}
	bars, err := plotter.NewBarChart(plotter.Values(sampled), width/vg.Length(len(sampled)))
	if err != nil {
		return nil, errors.Wrapf(err, "bar chart %q", opts.Title)
	}
	bars.LineStyle.Width = 0
	if opts.Color != nil {
		bars.Color = opts.Color
	}
	p.Add(bars)
	p.X.Tick.Marker = SampledTicks(len(sampled), every, labelEvery)
	return p, nil
}
