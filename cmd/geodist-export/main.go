// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command geodist-export dumps the legs of a geodist database to a CSV file.
package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-export"

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sbinet-lpc/geodist"
	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

var bucketLegs = []byte("legs")

func main() {
	log.SetPrefix("geodist-export: ")
	log.SetFlags(0)

	var (
		dbFlag  = flag.String("db", "geodist.db", "path to geodist database")
		outFlag = flag.String("o", "geodist.csv", "path to output CSV file")
	)

	flag.Parse()

	db, err := bbolt.Open(*dbFlag, 0644, &bbolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: true,
	})
	if err != nil {
		log.Fatalf("could not open geodist db: %+v", err)
	}
	defer db.Close()

	legs, err := load(db)
	if err != nil {
		log.Fatalf("could not load legs: %+v", err)
	}

	f, err := os.Create(*outFlag)
	if err != nil {
		log.Fatalf("could not create output CSV file: %+v", err)
	}
	defer f.Close()

	err = export(f, legs)
	if err != nil {
		log.Fatalf("could not export legs: %+v", err)
	}

	err = f.Close()
	if err != nil {
		log.Fatalf("could not save output CSV file: %+v", err)
	}

	log.Printf("exported %d leg(s) to %q", len(legs), *outFlag)
}

// load returns all the legs of the database, sorted by ID.
func load(db *bbolt.DB) ([]geodist.Leg, error) {
	var legs []geodist.Leg
	err := db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketLegs)
		if bkt == nil {
			return xerrors.Errorf("could not find %q bucket", bucketLegs)
		}
		return bkt.ForEach(func(k, v []byte) error {
			var (
				leg geodist.Leg
				err = leg.UnmarshalBinary(v)
			)
			if err != nil {
				return xerrors.Errorf("could not unmarshal leg: %w", err)
			}
			legs = append(legs, leg)
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("could not scan db: %w", err)
	}

	sort.Slice(legs, func(i, j int) bool {
		return legs[i].ID < legs[j].ID
	})
	return legs, nil
}

func export(w io.Writer, legs []geodist.Leg) error {
	var (
		o    = csv.NewWriter(w)
		ftoa = func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	)

	err := o.Write([]string{
		"id",
		"start", "start_lat", "start_lng",
		"dest", "dest_lat", "dest_lng",
		"dist",
	})
	if err != nil {
		return xerrors.Errorf("could not write CSV header: %w", err)
	}

	for _, leg := range legs {
		rec := []string{
			strconv.Itoa(int(leg.ID)),
			leg.Start.Name, ftoa(leg.Start.Lat), ftoa(leg.Start.Lng),
			leg.Dest.Name, ftoa(leg.Dest.Lat), ftoa(leg.Dest.Lng),
			ftoa(leg.Dist),
		}
		err = o.Write(rec)
		if err != nil {
			return xerrors.Errorf("could not write leg ID=%d: %w", leg.ID, err)
		}
	}

	o.Flush()
	err = o.Error()
	if err != nil {
		return xerrors.Errorf("could not flush CSV file: %w", err)
	}
	return nil
}
