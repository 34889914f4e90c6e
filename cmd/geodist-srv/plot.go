// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-srv"

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/sbinet-lpc/geodist/distplot"
	"golang.org/x/xerrors"
	"gonum.org/v1/plot/vg"
)

func (srv *server) plotDists(w http.ResponseWriter, r *http.Request) {
	legs, err := srv.legs()
	if err != nil {
		err = xerrors.Errorf("could not process legs: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	nbins := 50
	if v := r.URL.Query().Get("bins"); v != "" {
		nbins, err = strconv.Atoi(v)
		if err != nil || nbins <= 0 {
			http.Error(w, "invalid number of bins", http.StatusBadRequest)
			return
		}
	}

	dists := make([]float64, len(legs))
	for i, leg := range legs {
		dists[i] = leg.Dist
	}

	p := distplot.New(dists, nbins, srv.unit)

	buf := new(bytes.Buffer)
	err = distplot.WritePNG(buf, p, 15*vg.Centimeter, 10*vg.Centimeter)
	if err != nil {
		err = xerrors.Errorf("could not render distances plot: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, err = buf.WriteTo(w)
	if err != nil {
		log.Printf("could not write PNG reply: %+v", err)
	}
}
