// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geodist holds the legs stored and served by the geodist tools.
package geodist // import "github.com/sbinet-lpc/geodist"

//go:generate brio-gen -p github.com/sbinet-lpc/geodist -t Leg,Location -o gen_brio.go

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/sbinet-lpc/geodist/geo"
	"golang.org/x/xerrors"
)

// Leg is a journey between two locations.
type Leg struct {
	ID int32 `json:"id"`

	Start Location `json:"start"`
	Dest  Location `json:"dest"`
	Dist  float64  `json:"dist"` // great-circle distance, in the unit of the radius used
}

func (leg Leg) String() string {
	return fmt.Sprintf("geodist.Leg{id=%v start=%q dest=%q dist=%.3fkm}",
		leg.ID, leg.Start.Name, leg.Dest.Name, leg.Dist,
	)
}

// MarshalJSON encodes a non-finite distance as null.
func (leg Leg) MarshalJSON() ([]byte, error) {
	type raw Leg
	var dist *float64
	if !math.IsNaN(leg.Dist) && !math.IsInf(leg.Dist, 0) {
		dist = &leg.Dist
	}
	return json.Marshal(struct {
		raw
		Dist *float64 `json:"dist"`
	}{raw(leg), dist})
}

// UnmarshalJSON decodes a null distance as NaN.
func (leg *Leg) UnmarshalJSON(data []byte) error {
	type raw Leg
	var v struct {
		raw
		Dist json.RawMessage `json:"dist"`
	}
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}

	*leg = Leg(v.raw)
	switch {
	case len(v.Dist) == 0:
		leg.Dist = 0
	case bytes.Equal(v.Dist, []byte("null")):
		leg.Dist = math.NaN()
	default:
		err = json.Unmarshal(v.Dist, &leg.Dist)
		if err != nil {
			return xerrors.Errorf("could not decode leg distance: %w", err)
		}
	}
	return nil
}

// Compute sets the distance of the leg, on a sphere of radius r.
func (leg *Leg) Compute(r float64) {
	leg.Dist = geo.Distance(
		leg.Start.Lat, leg.Start.Lng,
		leg.Dest.Lat, leg.Dest.Lng,
		r,
	)
}

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (loc Location) Point() geo.Point {
	return geo.Point{Lat: loc.Lat, Lng: loc.Lng}
}

// ComputeLegs sets the distances of all the provided legs in one batch,
// on a sphere of radius r.
func ComputeLegs(legs []Leg, r float64) error {
	if len(legs) == 0 {
		return nil
	}

	var (
		n    = len(legs)
		lat1 = make([]float64, n)
		lng1 = make([]float64, n)
		lat2 = make([]float64, n)
		lng2 = make([]float64, n)
	)
	for i, leg := range legs {
		lat1[i] = leg.Start.Lat
		lng1[i] = leg.Start.Lng
		lat2[i] = leg.Dest.Lat
		lng2[i] = leg.Dest.Lng
	}

	dists, err := geo.Distances(nil, lat1, lng1, lat2, lng2, r)
	if err != nil {
		return xerrors.Errorf("could not compute leg distances: %w", err)
	}

	for i := range legs {
		legs[i].Dist = dists[i]
	}
	return nil
}
