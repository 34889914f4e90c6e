// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geo computes great-circle distances between points given in
// degrees on a sphere.
package geo // import "github.com/sbinet-lpc/geodist/geo"

import (
	"math"

	"golang.org/x/xerrors"
)

type Point struct {
	Lat float64
	Lng float64
}

// Mean radii of the Earth.
const (
	EarthRadius       = 6371.0 // km
	EarthRadiusMetres = 6.371e6
	EarthRadiusMiles  = 3958.8
)

const deg2rad = math.Pi / 180.

// ParseUnit returns the Earth radius expressed in the given length unit.
func ParseUnit(unit string) (float64, error) {
	switch unit {
	case "km", "":
		return EarthRadius, nil
	case "m":
		return EarthRadiusMetres, nil
	case "mi":
		return EarthRadiusMiles, nil
	}
	return 0, xerrors.Errorf("geo: unknown length unit %q", unit)
}

// Valid reports whether pt lies within the conventional latitude and
// longitude ranges.
func Valid(pt Point) bool {
	return -90 <= pt.Lat && pt.Lat <= 90 && -180 <= pt.Lng && pt.Lng <= 180
}

// Haversine returns the distance in kilometres between 2 points, using
// the Haversine formula:
//	https://en.wikipedia.org/wiki/Haversine_formula
//
// Input points coordinates are assumed to be in degrees.
func Haversine(pt1, pt2 Point) float64 {
	return Distance(pt1.Lat, pt1.Lng, pt2.Lat, pt2.Lng, EarthRadius)
}

// Distance returns the great-circle distance between (lat1, lng1) and
// (lat2, lng2) on a sphere of radius r. Coordinates are in degrees and
// the result is in the unit of r.
//
// Coordinates are neither validated nor wrapped. The haversine term is
// not clamped to [0, 1] either: when rounding pushes it above 1 the
// result is NaN.
func Distance(lat1, lng1, lat2, lng2, r float64) float64 {
	return r * central(
		lat1*deg2rad, lng1*deg2rad,
		lat2*deg2rad, lng2*deg2rad,
	)
}

// central returns the central angle between 2 points given in radians.
func central(lat1, lng1, lat2, lng2 float64) float64 {
	var (
		dLat = lat2 - lat1
		dLng = lng2 - lng1
	)

	a := hsin(dLat) + math.Cos(lat1)*math.Cos(lat2)*hsin(dLng)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func hsin(theta float64) float64 {
	sin := math.Sin(0.5 * theta)
	return sin * sin
}
