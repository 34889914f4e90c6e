// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package distplot draws distributions of great-circle distances.
package distplot // import "github.com/sbinet-lpc/geodist/distplot"

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"golang.org/x/xerrors"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Histogram fills a histogram with the provided distances.
// NaN distances are skipped.
func Histogram(dists []float64, nbins int) *hbook.H1D {
	if nbins <= 0 {
		nbins = 50
	}

	xmax := 0.0
	for _, v := range dists {
		if math.IsNaN(v) {
			continue
		}
		xmax = math.Max(xmax, v)
	}
	if xmax == 0 {
		xmax = 1
	}

	h := hbook.NewH1D(nbins, 0, 1.05*xmax)
	for _, v := range dists {
		if math.IsNaN(v) {
			continue
		}
		h.Fill(v, 1)
	}
	return h
}

// New creates a plot of the distribution of the provided distances,
// expressed in the given unit.
func New(dists []float64, nbins int, unit string) *hplot.Plot {
	h := Histogram(dists, nbins)

	p := hplot.New()
	p.Title.Text = fmt.Sprintf("Distances (N=%d, mean=%.1f %s)", h.Entries(), h.XMean(), unit)
	p.X.Label.Text = fmt.Sprintf("Distance [%s]", unit)
	p.Y.Label.Text = "Entries"

	hh := hplot.NewH1D(h)
	hh.LineStyle.Color = color.RGBA{0, 0, 255, 255}
	hh.FillColor = color.RGBA{0, 0, 255, 64}

	p.Add(hh)
	p.Add(hplot.NewGrid())
	return p
}

// WritePNG renders the plot as a PNG image of the given size.
func WritePNG(w io.Writer, p *hplot.Plot, width, height vg.Length) error {
	c := &vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	p.Draw(draw.New(c))

	_, err := c.WriteTo(w)
	if err != nil {
		return xerrors.Errorf("could not write PNG canvas: %w", err)
	}
	return nil
}
