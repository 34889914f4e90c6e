// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-ingest"

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/sbinet-lpc/geodist"
	"github.com/sbinet-lpc/geodist/osm"
	"golang.org/x/xerrors"
)

type processor struct {
	osm    *osm.Client
	radius float64
	legs   []geodist.Leg
}

func newProcessor(radius float64) *processor {
	return &processor{
		osm: &osm.Client{
			UserAgent:       osm.UserAgent,
			AcceptLanguages: []string{"fr", "en"},
		},
		radius: radius,
	}
}

// Process converts a raw leg, locating its end points by name when their
// coordinates are missing.
func (proc *processor) Process(raw RawLeg) error {
	start, err := proc.location(raw.Start)
	if err != nil {
		return xerrors.Errorf("could not resolve start of leg %d: %w", raw.ID, err)
	}
	dest, err := proc.location(raw.Dest)
	if err != nil {
		return xerrors.Errorf("could not resolve destination of leg %d: %w", raw.ID, err)
	}

	proc.legs = append(proc.legs, geodist.Leg{
		ID:    raw.ID,
		Start: start,
		Dest:  dest,
	})
	return nil
}

func (proc *processor) location(raw RawLocation) (geodist.Location, error) {
	loc := geodist.Location{Name: strings.TrimSpace(raw.Name.String)}
	if raw.Lat.Valid && raw.Lng.Valid {
		loc.Lat = raw.Lat.Float64
		loc.Lng = raw.Lng.Float64
		return loc, nil
	}

	if loc.Name == "" {
		return loc, xerrors.Errorf("location has neither coordinates nor name")
	}

	place, pt, err := proc.osm.Locate(loc.Name)
	if err != nil {
		return loc, xerrors.Errorf("could not locate %q: %w", loc.Name, err)
	}
	if *dbgFlag {
		log.Printf("located %q: %s (%v, %v)", loc.Name, place.DisplayName, pt.Lat, pt.Lng)
	}
	loc.Lat = pt.Lat
	loc.Lng = pt.Lng
	return loc, nil
}

// Compute fills the distances of all processed legs.
func (proc *processor) Compute() error {
	err := geodist.ComputeLegs(proc.legs, proc.radius)
	if err != nil {
		return err
	}
	for _, leg := range proc.legs {
		log.Printf("%v", leg)
	}
	return nil
}

func (proc *processor) upload(addr string) error {
	url := fmt.Sprintf("%s/api/update-db", srvURL(addr))
	body := new(bytes.Buffer)
	err := json.NewEncoder(body).Encode(proc.legs)
	if err != nil {
		return xerrors.Errorf("could not encode legs to JSON: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return xerrors.Errorf("could not create POST request to geodist-srv: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return xerrors.Errorf("could not send POST request to geodist-srv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return xerrors.Errorf("received an invalid status from geodist-srv: %s (code=%d)",
			resp.Status, resp.StatusCode,
		)
	}

	log.Printf("uploaded %d leg(s)", len(proc.legs))

	return nil
}
