// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command geodist-ingest reads new legs from a MySQL table, computes their
// great-circle distances and uploads them to geodist-srv.
package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-ingest"

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sbinet-lpc/geodist"
	"github.com/sbinet-lpc/geodist/geo"
	"golang.org/x/xerrors"
)

var (
	addrFlag = flag.String("addr", ":80", "address to geodist-srv")
	credFlag = flag.String("cred", "passwd", "path to the JSON credentials file of the MySQL database")
	unitFlag = flag.String("unit", "km", "length unit of the distances (km, m, mi)")
	dbgFlag  = flag.Bool("v", false, "enable verbose mode")
	dryFlag  = flag.Bool("dry", false, "enable dry mode (do not commit to geodist-DB)")
)

func main() {
	log.SetPrefix("geodist-ingest: ")
	log.SetFlags(0)

	flag.Parse()

	radius, err := geo.ParseUnit(*unitFlag)
	if err != nil {
		log.Fatalf("invalid unit: %+v", err)
	}

	lastID, err := getLastID(*addrFlag)
	if err != nil {
		log.Fatalf("could not retrieve last leg id: %+v", err)
	}

	c, err := readCredentials(*credFlag)
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("mysql", c.Conn())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	err = db.Ping()
	if err != nil {
		log.Fatalf("could not ping db: %+v", err)
	}

	raws, err := readLegs(db, c.Table, lastID)
	if err != nil {
		log.Fatalf("could not read legs: %+v", err)
	}
	log.Printf("legs:       %d", len(raws))

	if len(raws) == 0 {
		log.Printf("no new leg to process")
		return
	}

	proc := newProcessor(radius)
	for _, raw := range raws {
		err := proc.Process(raw)
		if err != nil {
			log.Fatalf("could not process leg id=%d: %+v", raw.ID, err)
		}
	}

	err = proc.Compute()
	if err != nil {
		log.Fatalf("could not compute distances: %+v", err)
	}

	summ := geodist.NewSummary(proc.legs)
	log.Printf("total:      %.1f %s", summ.Total, *unitFlag)
	log.Printf("mean:       %.1f %s", summ.Mean, *unitFlag)

	if *dryFlag {
		log.Printf("dry mode enabled: no upload to %q geodist-srv", *addrFlag)
		return
	}

	err = proc.upload(*addrFlag)
	if err != nil {
		log.Fatalf("could not upload new legs: %+v", err)
	}
}

// RawLeg is a leg as stored in the MySQL table.
// Missing coordinates are resolved from the location names.
type RawLeg struct {
	ID    int32
	Start RawLocation
	Dest  RawLocation
}

type RawLocation struct {
	Name sql.NullString
	Lat  sql.NullFloat64
	Lng  sql.NullFloat64
}

var reTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func readLegs(db *sql.DB, table string, lastID int32) ([]RawLeg, error) {
	if !reTable.MatchString(table) {
		return nil, xerrors.Errorf("invalid table name %q", table)
	}

	rows, err := db.Query(fmt.Sprintf(
		"select id, start_name, start_lat, start_lng, dest_name, dest_lat, dest_lng from %s where id > ? order by id",
		table,
	), lastID)
	if err != nil {
		return nil, xerrors.Errorf("could not select: %w", err)
	}
	defer rows.Close()

	var legs []RawLeg
	for rows.Next() {
		var leg RawLeg
		err = rows.Scan(
			&leg.ID,
			&leg.Start.Name, &leg.Start.Lat, &leg.Start.Lng,
			&leg.Dest.Name, &leg.Dest.Lat, &leg.Dest.Lng,
		)
		if err != nil {
			return nil, xerrors.Errorf("could not scan row: %w", err)
		}
		if *dbgFlag {
			log.Printf("id=%d start=%q dest=%q", leg.ID, leg.Start.Name.String, leg.Dest.Name.String)
		}
		legs = append(legs, leg)
	}

	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("could not iterate over select result: %w", err)
	}

	return legs, nil
}

type cred struct {
	User  string `json:"user"`
	Pwd   string `json:"password"`
	Host  string `json:"host"`
	DB    string `json:"db"`
	Table string `json:"table"`
}

func readCredentials(name string) (cred, error) {
	var v cred
	f, err := os.Open(name)
	if err != nil {
		return v, xerrors.Errorf("could not open credentials file: %w", err)
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(&v)
	if err != nil {
		return v, xerrors.Errorf("could not decode credentials file content: %w", err)
	}

	return v, nil
}

func (c cred) Conn() string {
	host := c.Host
	if !strings.Contains(host, ":") {
		host += ":3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s", c.User, c.Pwd, host, c.DB)
}

func getLastID(addr string) (int32, error) {
	url := fmt.Sprintf("%s/api/last-id", srvURL(addr))
	resp, err := http.Get(url)
	if err != nil {
		return 0, xerrors.Errorf("could not GET last-id: %w", err)
	}
	defer resp.Body.Close()

	var raw struct {
		ID int32 `json:"id"`
	}
	err = json.NewDecoder(resp.Body).Decode(&raw)
	if err != nil {
		return 0, xerrors.Errorf("could not decode last-id response: %w", err)
	}

	return raw.ID, nil
}

// srvURL returns the base URL of the geodist-srv listening at addr.
func srvURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimSuffix(addr, "/")
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
