// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// CubehelixOpts parameterizes Green's cubehelix colour scheme.
type CubehelixOpts struct {
	// Start is the starting hue, in units of 1/3 rotation.
	Start float64
	// Rotation is the number of hue rotations across the full scale.
	Rotation float64
	Gamma    float64
	// Hue is the saturation amplitude.
	Hue float64
	// Light and Dark are the intensities of the first and last colours.
	Light, Dark float64
	Reverse     bool
}

// DefaultCubehelixOpts yields a light-to-dark purple ramp.
var DefaultCubehelixOpts = CubehelixOpts{
	Start:    0,
	Rotation: 0.4,
	Gamma:    1,
	Hue:      0.8,
	Light:    0.85,
	Dark:     0.15,
}

// colors implements palette.Palette.
type colors []color.Color

func (c colors) Colors() []color.Color { return c }

// Cubehelix returns n colours evenly spaced between opts.Light and
// opts.Dark.
func Cubehelix(n int, opts CubehelixOpts) palette.Palette {
	pal := make(colors, n)
	for i := range pal {
		x := opts.Light
		if n > 1 {
			x += (opts.Dark - opts.Light) * float64(i) / float64(n-1)
		}
		pal[i] = cubehelixAt(x, opts)
	}
	if opts.Reverse {
		for i, j := 0, len(pal)-1; i < j; i, j = i+1, j-1 {
			pal[i], pal[j] = pal[j], pal[i]
		}
	}
	return pal
}

func cubehelixAt(x float64, opts CubehelixOpts) color.Color {
	xg := math.Pow(x, opts.Gamma)
	a := opts.Hue * xg * (1 - xg) / 2
	phi := 2 * math.Pi * (opts.Start/3 + opts.Rotation*x)
	cos, sin := math.Cos(phi), math.Sin(phi)
	channel := func(p0, p1 float64) uint8 {
		v := xg + a*(p0*cos+p1*sin)
		v = math.Max(0, math.Min(1, v))
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{
		R: channel(-0.14861, 1.78277),
		G: channel(-0.29227, -0.90649),
		B: channel(1.97294, 0),
		A: 255,
	}
}

// Trim returns the colours of p from index start on.  The result always
// holds at least the last colour.
func Trim(p palette.Palette, start int) palette.Palette {
	c := p.Colors()
	if start >= len(c) {
		start = len(c) - 1
	}
	if start < 0 {
		start = 0
	}
	return colors(c[start:])
}
