// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command geodist-srv serves great-circle distances and a database of legs.
package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-srv"

import (
	"flag"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sbinet-lpc/geodist/geo"
)

func main() {
	log.SetPrefix("geodist-srv: ")
	log.SetFlags(0)

	var (
		addrFlag = flag.String("addr", ":80", "[host]:port to serve")
		dbFlag   = flag.String("db", "geodist.db", "path to geodist database")
		unitFlag = flag.String("unit", "km", "length unit of stored distances (km, m, mi)")
	)

	flag.Parse()

	radius, err := geo.ParseUnit(*unitFlag)
	if err != nil {
		log.Fatalf("invalid unit: %+v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := newServer(*dbFlag, radius, *unitFlag, reg)
	if err != nil {
		log.Fatalf("could not create geodist server: %+v", err)
	}
	defer srv.Close()

	log.Printf("serving %q...", *addrFlag)

	log.Fatalf("error serving geodist-srv: %+v", http.ListenAndServe(*addrFlag, srv.mux()))
}
