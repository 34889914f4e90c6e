// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command geodist computes great-circle distances between points.
//
// Usage:
//
//	$> geodist [options] lat1 lng1 lat2 lng2
//	$> geodist [options] -from "Clermont-Ferrand" -to "Paris"
//	$> geodist [options] -csv pairs.csv [-plot dists.png]
//
// Coordinates are in degrees. Rows of the CSV file hold lat1,lng1,lat2,lng2.
package main // import "github.com/sbinet-lpc/geodist/cmd/geodist"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet-lpc/geodist/geo"
	"github.com/sbinet-lpc/geodist/osm"
)

func main() {
	log.SetPrefix("geodist: ")
	log.SetFlags(0)

	var (
		unitFlag = flag.String("unit", "km", "length unit of the output (km, m, mi)")
		radFlag  = flag.Float64("r", 0, "sphere radius, overriding -unit")
		fromFlag = flag.String("from", "", "name of the starting place, located with OpenStreetMap")
		toFlag   = flag.String("to", "", "name of the destination place, located with OpenStreetMap")
		langFlag = flag.String("lang", "", "comma-separated list of accepted language values (e.g. fr,en)")
		csvFlag  = flag.String("csv", "", "path to a CSV file of lat1,lng1,lat2,lng2 rows")
		plotFlag = flag.String("plot", "", "path to a PNG histogram of the CSV distances")
		binsFlag = flag.Int("bins", 50, "number of bins of the histogram")
	)

	flag.Parse()

	r, err := geo.ParseUnit(*unitFlag)
	if err != nil {
		log.Fatalf("invalid unit: %+v", err)
	}
	unit := *unitFlag
	if *radFlag > 0 {
		r = *radFlag
		unit = "a.u."
	}

	switch {
	case *csvFlag != "":
		err = runCSV(os.Stdout, *csvFlag, *plotFlag, *binsFlag, r, unit)
		if err != nil {
			log.Fatalf("could not process CSV file %q: %+v", *csvFlag, err)
		}

	case *fromFlag != "" || *toFlag != "":
		if *fromFlag == "" || *toFlag == "" {
			flag.Usage()
			log.Fatalf("-from and -to must be provided together")
		}
		cli := &osm.Client{UserAgent: osm.UserAgent}
		if *langFlag != "" {
			cli.AcceptLanguages = strings.Split(*langFlag, ",")
		}

		src, p1, err := cli.Locate(*fromFlag)
		if err != nil {
			log.Fatalf("could not locate %q: %+v", *fromFlag, err)
		}
		dst, p2, err := cli.Locate(*toFlag)
		if err != nil {
			log.Fatalf("could not locate %q: %+v", *toFlag, err)
		}
		log.Printf("from: %s (%v, %v)", src.DisplayName, p1.Lat, p1.Lng)
		log.Printf("to:   %s (%v, %v)", dst.DisplayName, p2.Lat, p2.Lng)

		fmt.Printf("%v\n", geo.Distance(p1.Lat, p1.Lng, p2.Lat, p2.Lng, r))

	default:
		if flag.NArg() != 4 {
			flag.Usage()
			log.Fatalf("missing coordinates (lat1 lng1 lat2 lng2)")
		}
		vs, err := parseFloats(flag.Args())
		if err != nil {
			log.Fatalf("could not parse coordinates: %+v", err)
		}
		fmt.Printf("%v\n", geo.Distance(vs[0], vs[1], vs[2], vs[3], r))
	}
}

func parseFloats(args []string) ([]float64, error) {
	vs := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse value %q: %w", arg, err)
		}
		vs[i] = v
	}
	return vs, nil
}
