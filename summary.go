// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geodist // import "github.com/sbinet-lpc/geodist"

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of leg distances, in the unit of the
// radius used.
// Non-finite distances are counted in Skipped and left out of the statistics.
type Summary struct {
	N       int     `json:"n"`
	Skipped int     `json:"skipped"`
	Total   float64 `json:"total"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
}

func NewSummary(legs []Leg) Summary {
	summ := Summary{N: len(legs)}

	dists := make([]float64, 0, len(legs))
	for _, leg := range legs {
		if math.IsNaN(leg.Dist) || math.IsInf(leg.Dist, 0) {
			summ.Skipped++
			continue
		}
		dists = append(dists, leg.Dist)
	}
	if len(dists) == 0 {
		return summ
	}

	summ.Total = floats.Sum(dists)
	summ.Min = floats.Min(dists)
	summ.Max = floats.Max(dists)
	summ.Mean = stat.Mean(dists, nil)
	if len(dists) > 1 {
		summ.StdDev = stat.StdDev(dists, nil)
	}

	return summ
}
