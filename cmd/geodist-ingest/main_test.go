package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbinet-lpc/geodist"
	"github.com/sbinet-lpc/geodist/geo"
)

func TestCredentials(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "passwd")
	err := os.WriteFile(fname, []byte(`{"user":"bob","password":"s3cr3t","host":"db.example.org","db":"trips","table":"legs"}`), 0600)
	if err != nil {
		t.Fatalf("could not create credentials file: %+v", err)
	}

	c, err := readCredentials(fname)
	if err != nil {
		t.Fatalf("could not read credentials: %+v", err)
	}
	if got, want := c.Conn(), "bob:s3cr3t@tcp(db.example.org:3306)/trips"; got != want {
		t.Fatalf("invalid connection string:\ngot= %q\nwant=%q", got, want)
	}
	if got, want := c.Table, "legs"; got != want {
		t.Fatalf("invalid table: got=%q, want=%q", got, want)
	}

	c.Host = "localhost:13306"
	if got, want := c.Conn(), "bob:s3cr3t@tcp(localhost:13306)/trips"; got != want {
		t.Fatalf("invalid connection string:\ngot= %q\nwant=%q", got, want)
	}

	_, err = readCredentials(filepath.Join(t.TempDir(), "not-there"))
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestReadLegsInvalidTable(t *testing.T) {
	for _, table := range []string{"", "legs; drop table legs", "1legs", "legs`"} {
		_, err := readLegs(nil, table, 0)
		if err == nil {
			t.Fatalf("expected an error for table %q", table)
		}
	}
}

func TestSrvURL(t *testing.T) {
	for _, tt := range []struct {
		addr, want string
	}{
		{":80", "http://localhost:80"},
		{"example.org:8080", "http://example.org:8080"},
		{"http://127.0.0.1:1234/", "http://127.0.0.1:1234"},
	} {
		if got := srvURL(tt.addr); got != tt.want {
			t.Errorf("srvURL(%q): got=%q, want=%q", tt.addr, got, tt.want)
		}
	}
}

func TestProcessAndUpload(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch q := r.URL.Query().Get("q"); q {
		case "Paris":
			fmt.Fprint(w, `[{"lat": "48.8566101", "lon": "2.3514992", "display_name": "Paris, France"}]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	}))
	defer nominatim.Close()

	var (
		got []geodist.Leg
		mux = http.NewServeMux()
	)
	mux.HandleFunc("/api/last-id", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 41}`)
	})
	mux.HandleFunc("/api/update-db", func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&got)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	lid, err := getLastID(srv.URL)
	if err != nil {
		t.Fatalf("could not get last-id: %+v", err)
	}
	if lid != 41 {
		t.Fatalf("invalid last-id: got=%d, want=41", lid)
	}

	proc := newProcessor(geo.EarthRadius)
	proc.osm.Endpoint = nominatim.URL

	clermont := RawLocation{
		Name: sql.NullString{String: "Clermont-Ferrand", Valid: true},
		Lat:  sql.NullFloat64{Float64: 45.7774551, Valid: true},
		Lng:  sql.NullFloat64{Float64: 3.0819427, Valid: true},
	}

	err = proc.Process(RawLeg{
		ID:    42,
		Start: clermont,
		Dest:  RawLocation{Name: sql.NullString{String: "Paris", Valid: true}},
	})
	if err != nil {
		t.Fatalf("could not process leg: %+v", err)
	}

	err = proc.Process(RawLeg{
		ID:    43,
		Start: clermont,
		Dest:  RawLocation{Name: sql.NullString{String: "Atlantis", Valid: true}},
	})
	if err == nil {
		t.Fatalf("expected an error for an unknown place")
	}

	err = proc.Process(RawLeg{ID: 44, Start: clermont})
	if err == nil {
		t.Fatalf("expected an error for an empty location")
	}

	err = proc.Compute()
	if err != nil {
		t.Fatalf("could not compute distances: %+v", err)
	}

	err = proc.upload(srv.URL)
	if err != nil {
		t.Fatalf("could not upload legs: %+v", err)
	}

	if len(got) != 1 {
		t.Fatalf("invalid number of uploaded legs: got=%d, want=1", len(got))
	}
	leg := got[0]
	if leg.ID != 42 || leg.Dest.Lat != 48.8566101 || leg.Dest.Lng != 2.3514992 {
		t.Fatalf("invalid uploaded leg: %+v", leg)
	}
	want := geo.Distance(45.7774551, 3.0819427, 48.8566101, 2.3514992, geo.EarthRadius)
	if leg.Dist != want {
		t.Fatalf("invalid distance: got=%v, want=%v", leg.Dist, want)
	}
}

func TestUploadNonFinite(t *testing.T) {
	var got []geodist.Leg
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&got)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	proc := newProcessor(geo.EarthRadius)
	proc.legs = []geodist.Leg{
		{
			ID:    1,
			Start: geodist.Location{Lat: -88.5, Lng: 0},
			Dest:  geodist.Location{Lat: 88.5, Lng: 180},
		},
	}
	err := proc.Compute()
	if err != nil {
		t.Fatalf("could not compute distances: %+v", err)
	}
	proc.legs = append(proc.legs, geodist.Leg{ID: 2, Dist: math.NaN()})

	err = proc.upload(srv.URL)
	if err != nil {
		t.Fatalf("could not upload legs: %+v", err)
	}

	if len(got) != 2 {
		t.Fatalf("invalid number of uploaded legs: got=%d, want=2", len(got))
	}
	if !math.IsNaN(got[1].Dist) {
		t.Fatalf("invalid distance: got=%v, want=NaN", got[1].Dist)
	}
	want := proc.legs[0].Dist
	if got := got[0].Dist; got != want && !(math.IsNaN(got) && math.IsNaN(want)) {
		t.Fatalf("invalid antipodal distance: got=%v, want=%v", got, want)
	}
}
