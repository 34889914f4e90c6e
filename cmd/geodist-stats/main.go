// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command geodist-stats displays the summary of the legs served by geodist-srv.
package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-stats"

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/sbinet-lpc/geodist"
	"golang.org/x/xerrors"
)

type stats struct {
	geodist.Summary
	Unit string `json:"unit"`
}

func main() {
	log.SetPrefix("geodist-stats: ")
	log.SetFlags(0)

	addrFlag := flag.String("addr", ":80", "[host]:port address of geodist-srv")

	flag.Parse()

	addr := *addrFlag
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	log.Printf("querying %q...", addr)

	st, err := fetch(fmt.Sprintf("http://%s/api/stats", addr))
	if err != nil {
		log.Fatalf("could not query stats: %+v", err)
	}

	display(os.Stdout, st)
}

func fetch(url string) (stats, error) {
	var st stats
	resp, err := http.Get(url)
	if err != nil {
		return st, xerrors.Errorf("could not GET stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return st, xerrors.Errorf("invalid status code %s (%d)", resp.Status, resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&st)
	if err != nil {
		return st, xerrors.Errorf("could not decode JSON stats: %w", err)
	}
	return st, nil
}

func display(w io.Writer, st stats) {
	fmt.Fprintf(w, "legs:     %8d\n", st.N)
	fmt.Fprintf(w, "skipped:  %8d\n", st.Skipped)
	fmt.Fprintf(w, "total:    %8.1f %s\n", st.Total, st.Unit)
	fmt.Fprintf(w, "min:      %8.1f %s\n", st.Min, st.Unit)
	fmt.Fprintf(w, "max:      %8.1f %s\n", st.Max, st.Unit)
	fmt.Fprintf(w, "mean:     %8.1f %s\n", st.Mean, st.Unit)
	fmt.Fprintf(w, "std-dev:  %8.1f %s\n", st.StdDev, st.Unit)
}
