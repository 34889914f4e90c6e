// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo // import "github.com/sbinet-lpc/geodist/geo"

import (
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

// ErrShape is returned when batch inputs can not be broadcast together.
var ErrShape = xerrors.New("geo: mismatched input lengths")

// Distances computes the great-circle distances between the point pairs
// ((lat1[i], lng1[i]), (lat2[i], lng2[i])) on a sphere of radius r.
//
// Each input slice must either hold n values or exactly one value, in
// which case that value is used for every pair. The result holds n
// distances; element i is equal to what Distance returns for the i-th
// pair. dst is reused if it has enough capacity and may alias any of
// the inputs.
func Distances(dst, lat1, lng1, lat2, lng2 []float64, r float64) ([]float64, error) {
	n, err := broadcastLen(lat1, lng1, lat2, lng2)
	if err != nil {
		return nil, err
	}

	var (
		lat1r = radians(lat1, n)
		lng1r = radians(lng1, n)
		lat2r = radians(lat2, n)
		lng2r = radians(lng2, n)
	)

	dst = resize(dst, n)
	for i := range dst {
		dst[i] = central(lat1r[i], lng1r[i], lat2r[i], lng2r[i])
	}
	floats.Scale(r, dst)

	return dst, nil
}

// PointDistances computes the great-circle distances between p1[i] and
// p2[i] on a sphere of radius r, with the same broadcasting rules as
// Distances.
func PointDistances(dst []float64, p1, p2 []Point, r float64) ([]float64, error) {
	lat1, lng1 := unzip(p1)
	lat2, lng2 := unzip(p2)
	return Distances(dst, lat1, lng1, lat2, lng2, r)
}

func broadcastLen(vs ...[]float64) (int, error) {
	var (
		n   = 1
		set = false
	)
	for _, v := range vs {
		if len(v) == 1 {
			continue
		}
		switch {
		case !set:
			n = len(v)
			set = true
		case len(v) != n:
			return 0, xerrors.Errorf("could not broadcast lengths %v: %w", lens(vs), ErrShape)
		}
	}
	return n, nil
}

func lens(vs [][]float64) []int {
	o := make([]int, len(vs))
	for i, v := range vs {
		o[i] = len(v)
	}
	return o
}

// radians returns a fresh n-long slice holding v converted to radians,
// repeating v[0] when v holds a single value.
func radians(v []float64, n int) []float64 {
	o := make([]float64, n)
	if len(v) == 1 && n != 1 {
		for i := range o {
			o[i] = v[0]
		}
		v = o
	}
	return floats.ScaleTo(o, deg2rad, v)
}

func resize(v []float64, n int) []float64 {
	if cap(v) >= n {
		return v[:n]
	}
	return make([]float64, n)
}

func unzip(pts []Point) (lat, lng []float64) {
	lat = make([]float64, len(pts))
	lng = make([]float64, len(pts))
	for i, pt := range pts {
		lat[i] = pt.Lat
		lng[i] = pt.Lng
	}
	return lat, lng
}
