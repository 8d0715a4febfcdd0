// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package chart

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// format returns the image format implied by path's extension.
func format(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// writeTo writes wt to path through grailbio/base/file.
func writeTo(ctx context.Context, wt io.WriterTo, path string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if err2 := out.Close(ctx); err2 != nil && err == nil {
			err = errors.Wrapf(err2, "close %s", path)
		}
	}()
	if _, err = wt.WriteTo(out.Writer(ctx)); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	log.Printf("wrote %s", path)
	return nil
}

// Save renders p at w x h to path.  The format (png, jpg, svg, pdf, eps,
// tif) comes from the extension.
func Save(ctx context.Context, p *plot.Plot, w, h vg.Length, path string) error {
	wt, err := p.WriterTo(w, h, format(path))
	if err != nil {
		return errors.Wrapf(err, "render %s", path)
	}
	return writeTo(ctx, wt, path)
}

// SaveRow renders plots side by side under a common title and writes the
// figure to path.  Only raster formats are supported.
func SaveRow(ctx context.Context, title string, plots []*plot.Plot, w, h vg.Length, path string) error {
	if len(plots) == 0 {
		return errors.Errorf("%s: no plots", path)
	}
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	if title != "" {
		sty := plots[0].Title.TextStyle
		sty.Font.Size = vg.Points(14)
		sty.XAlign = draw.XCenter
		sty.YAlign = draw.YTop
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Millimeter*2}, title)
		tiles.PadTop += sty.Height(title) + vg.Millimeter*2
	}
	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	var wt io.WriterTo
	switch format(path) {
	case "png":
		wt = vgimg.PngCanvas{Canvas: img}
	case "jpg", "jpeg":
		wt = vgimg.JpegCanvas{Canvas: img}
	case "tif", "tiff":
		wt = vgimg.TiffCanvas{Canvas: img}
	default:
		return errors.Errorf("%s: unsupported format for multi-panel figure", path)
	}
	return writeTo(ctx, wt, path)
}

// viewer returns the command that opens an image on this platform.
func viewer() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// Show renders p to a temporary PNG and opens it in the platform image
// viewer.  The file is left behind for the viewer to read.
func Show(p *plot.Plot, w, h vg.Length) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return errors.Wrap(err, "render")
	}
	f, err := ioutil.TempFile("", "covplot-*.png")
	if err != nil {
		return errors.Wrap(err, "temp file")
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close() // nolint: errcheck
		return errors.Wrapf(err, "write %s", f.Name())
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", f.Name())
	}
	cmd := exec.Command(viewer(), f.Name())
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "display %s (saved)", f.Name())
	}
	log.Printf("displaying %s", f.Name())
	return nil
}
