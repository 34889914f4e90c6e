// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main // import "github.com/sbinet-lpc/geodist/cmd/geodist"

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/sbinet-lpc/geodist/distplot"
	"github.com/sbinet-lpc/geodist/geo"
	"golang.org/x/xerrors"
	"gonum.org/v1/plot/vg"
)

// pairs holds the columns of a batch of point pairs.
type pairs struct {
	lat1, lng1 []float64
	lat2, lng2 []float64
}

// readPairs reads lat1,lng1,lat2,lng2 records.
// A first record where no field parses as a number is treated as a header.
func readPairs(r io.Reader) (pairs, error) {
	var (
		ps  pairs
		rec = csv.NewReader(r)
	)
	rec.FieldsPerRecord = 4
	rec.TrimLeadingSpace = true
	rec.Comment = '#'

	for i := 0; ; i++ {
		row, err := rec.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ps, xerrors.Errorf("could not read CSV record: %w", err)
		}

		vs, err := parseFloats(row)
		if err != nil {
			if i == 0 && isHeader(row) {
				continue
			}
			line, _ := rec.FieldPos(0)
			return ps, xerrors.Errorf("could not parse CSV record (line %d): %w", line, err)
		}
		ps.lat1 = append(ps.lat1, vs[0])
		ps.lng1 = append(ps.lng1, vs[1])
		ps.lat2 = append(ps.lat2, vs[2])
		ps.lng2 = append(ps.lng2, vs[3])
	}

	return ps, nil
}

func isHeader(row []string) bool {
	for _, v := range row {
		_, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return false
		}
	}
	return true
}

func runCSV(w io.Writer, fname, oname string, nbins int, r float64, unit string) error {
	f, err := os.Open(fname)
	if err != nil {
		return xerrors.Errorf("could not open CSV file: %w", err)
	}
	defer f.Close()

	ps, err := readPairs(f)
	if err != nil {
		return err
	}

	dists, err := geo.Distances(nil, ps.lat1, ps.lng1, ps.lat2, ps.lng2, r)
	if err != nil {
		return xerrors.Errorf("could not compute distances: %w", err)
	}

	o := bufio.NewWriter(w)
	for _, d := range dists {
		o.WriteString(strconv.FormatFloat(d, 'f', -1, 64))
		o.WriteByte('\n')
	}
	err = o.Flush()
	if err != nil {
		return xerrors.Errorf("could not write distances: %w", err)
	}

	if oname == "" {
		return nil
	}

	return savePlot(oname, dists, nbins, unit)
}

func savePlot(oname string, dists []float64, nbins int, unit string) error {
	f, err := os.Create(oname)
	if err != nil {
		return xerrors.Errorf("could not create plot file: %w", err)
	}
	defer f.Close()

	p := distplot.New(dists, nbins, unit)
	err = distplot.WritePNG(f, p, 15*vg.Centimeter, 10*vg.Centimeter)
	if err != nil {
		return xerrors.Errorf("could not render plot: %w", err)
	}

	err = f.Close()
	if err != nil {
		return xerrors.Errorf("could not save plot file: %w", err)
	}
	return nil
}
