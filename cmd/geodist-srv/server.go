// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-srv"

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sbinet-lpc/geodist"
	"github.com/sbinet-lpc/geodist/geo"
	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

var (
	bucketUpdate = []byte("last-update")
	bucketLegs   = []byte("legs")
)

type server struct {
	mu   sync.RWMutex
	db   *bbolt.DB
	lid  int32     // last leg id
	last time.Time // last updated

	radius float64 // sphere radius, in unit
	unit   string

	reg     *prometheus.Registry
	metrics *metrics
}

func newServer(name string, radius float64, unit string, reg *prometheus.Registry) (*server, error) {
	db, err := bbolt.Open(name, 0644, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, xerrors.Errorf("could not open geodist db: %w", err)
	}

	srv := &server{
		db:      db,
		last:    time.Now().UTC(),
		radius:  radius,
		unit:    unit,
		reg:     reg,
		metrics: newMetrics(reg),
	}
	err = srv.init()
	if err != nil {
		_ = db.Close()
		return nil, xerrors.Errorf("could not initialize geodist server: %w", err)
	}

	return srv, nil
}

func (srv *server) init() error {
	err := srv.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUpdate, bucketLegs} {
			bkt, err := tx.CreateBucketIfNotExists(name)
			if err != nil {
				return xerrors.Errorf("could not create %q bucket: %w", name, err)
			}
			if bkt == nil {
				return xerrors.Errorf("could not create %q bucket", name)
			}
		}
		return nil
	})
	if err != nil {
		return xerrors.Errorf("could not setup geodist db buckets: %w", err)
	}

	n := 0
	err = srv.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketLegs)
		if bkt == nil {
			return xerrors.Errorf("could not find %q bucket", bucketLegs)
		}
		return bkt.ForEach(func(k, v []byte) error {
			n++
			id := int32(binary.LittleEndian.Uint32(k))
			if id > srv.lid {
				srv.lid = id
			}
			return nil
		})
	})
	if err != nil {
		return xerrors.Errorf("could not find last leg id: %w", err)
	}
	srv.metrics.Legs.Set(float64(n))

	err = srv.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketUpdate)
		if bkt == nil {
			return xerrors.Errorf("could not find %q bucket", bucketUpdate)
		}
		raw := bkt.Get(bucketUpdate)
		if raw == nil {
			return nil
		}

		return srv.last.UnmarshalBinary(raw)
	})
	if err != nil {
		return xerrors.Errorf("could not find last-update: %w", err)
	}

	return nil
}

func (srv *server) Close() error {
	err := srv.db.Close()
	if err != nil {
		return xerrors.Errorf("could not close geodist db: %w", err)
	}

	return nil
}

func (srv *server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.metrics.instrument("root", srv.rootHandle))
	mux.HandleFunc("/api/dist", srv.metrics.instrument("dist", srv.apiDist))
	mux.HandleFunc("/api/batch", srv.metrics.instrument("batch", srv.apiBatch))
	mux.HandleFunc("/api/last-id", srv.metrics.instrument("last-id", srv.apiLastID))
	mux.HandleFunc("/api/stats", srv.metrics.instrument("stats", srv.apiStats))
	mux.HandleFunc("/api/update-db", srv.metrics.instrument("update-db", srv.apiUpdateDB))
	mux.HandleFunc("/plot/dists", srv.metrics.instrument("plot", srv.plotDists))
	mux.Handle("/metrics", promhttp.HandlerFor(srv.reg, promhttp.HandlerOpts{}))
	return mux
}

// distance is a float64 encoded as null in JSON when it is not finite.
type distance float64

func (d distance) MarshalJSON() ([]byte, error) {
	v := float64(d)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func distances(vs []float64) []distance {
	o := make([]distance, len(vs))
	for i, v := range vs {
		o[i] = distance(v)
	}
	return o
}

func (srv *server) rootHandle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	legs, err := srv.legs()
	if err != nil {
		err = xerrors.Errorf("could not load legs: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	srv.mu.RLock()
	last := srv.last.Format("2006-01-02 15:04:05")
	srv.mu.RUnlock()

	err = rootTmpl.Execute(w, map[string]interface{}{
		"Summary": geodist.NewSummary(legs),
		"Unit":    srv.unit,
		"Updated": last,
	})
	if err != nil {
		err = xerrors.Errorf("could not execute html template: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (srv *server) apiDist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "invalid HTTP method", http.StatusBadRequest)
		return
	}

	var (
		q      = r.URL.Query()
		vs     = make([]float64, 4)
		radius = srv.radius
	)
	for i, name := range []string{"lat1", "lng1", "lat2", "lng2"} {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("could not parse %q: %+v", name, err), http.StatusBadRequest)
			return
		}
		vs[i] = v
	}
	if v := q.Get("r"); v != "" {
		rr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("could not parse radius: %+v", err), http.StatusBadRequest)
			return
		}
		radius = rr
	}

	dist := geo.Distance(vs[0], vs[1], vs[2], vs[3], radius)
	srv.metrics.Distances.Inc()

	srv.writeJSON(w, struct {
		Dist   distance `json:"dist"`
		Radius float64  `json:"radius"`
	}{distance(dist), radius})
}

type batchRequest struct {
	Lat1   []float64 `json:"lat1"`
	Lng1   []float64 `json:"lng1"`
	Lat2   []float64 `json:"lat2"`
	Lng2   []float64 `json:"lng2"`
	Radius float64   `json:"radius,omitempty"`
}

func (srv *server) apiBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "invalid HTTP method", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req batchRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w,
			fmt.Sprintf("could not decode batch request payload: %+v", err),
			http.StatusBadRequest,
		)
		return
	}

	radius := srv.radius
	if req.Radius != 0 {
		radius = req.Radius
	}

	dists, err := geo.Distances(nil, req.Lat1, req.Lng1, req.Lat2, req.Lng2, radius)
	if err != nil {
		code := http.StatusInternalServerError
		if xerrors.Is(err, geo.ErrShape) {
			code = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("could not compute distances: %+v", err), code)
		return
	}
	srv.metrics.BatchSize.Observe(float64(len(dists)))
	srv.metrics.Distances.Add(float64(len(dists)))

	srv.writeJSON(w, struct {
		Dists  []distance `json:"dists"`
		Radius float64    `json:"radius"`
	}{distances(dists), radius})
}

func (srv *server) apiLastID(w http.ResponseWriter, r *http.Request) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	if r.Method != http.MethodGet {
		http.Error(w, "invalid HTTP method", http.StatusBadRequest)
		return
	}

	srv.writeJSON(w, struct {
		ID int32 `json:"id"`
	}{ID: srv.lid})
}

func (srv *server) apiStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "invalid HTTP method", http.StatusBadRequest)
		return
	}

	legs, err := srv.legs()
	if err != nil {
		err = xerrors.Errorf("could not process legs: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	srv.writeJSON(w, struct {
		geodist.Summary
		Unit string `json:"unit"`
	}{geodist.NewSummary(legs), srv.unit})
}

func (srv *server) apiUpdateDB(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if r.Method != http.MethodPost {
		http.Error(w, "invalid HTTP method", http.StatusBadRequest)
		return
	}

	defer r.Body.Close()

	var legs []geodist.Leg
	err := json.NewDecoder(r.Body).Decode(&legs)
	if err != nil {
		log.Printf("could not decode update-db request payload: %+v", err)
		http.Error(w,
			fmt.Sprintf("could not decode update-db request payload: %+v", err),
			http.StatusBadRequest,
		)
		return
	}

	if len(legs) == 0 {
		log.Printf("received an empty leg list")
		return
	}

	err = geodist.ComputeLegs(legs, srv.radius)
	if err != nil {
		err = xerrors.Errorf("could not compute leg distances: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	srv.metrics.Distances.Add(float64(len(legs)))

	var (
		n   int
		lid = srv.lid
	)
	err = srv.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketLegs)
		if bkt == nil {
			return xerrors.Errorf("could not access %q bucket", bucketLegs)
		}

		id := make([]byte, 4)
		for _, leg := range legs {
			binary.LittleEndian.PutUint32(id, uint32(leg.ID))
			buf, err := leg.MarshalBinary()
			if err != nil {
				return xerrors.Errorf("could not marshal leg %v: %w", leg, err)
			}

			err = bkt.Put(id, buf)
			if err != nil {
				return xerrors.Errorf("could not store leg %v: %w", leg, err)
			}
			if leg.ID > lid {
				lid = leg.ID
			}
		}
		n = bkt.Stats().KeyN
		return nil
	})

	if err != nil {
		err = xerrors.Errorf("could not update geodist db buckets: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	srv.lid = lid
	srv.metrics.Legs.Set(float64(n))

	srv.last = time.Now().UTC()
	err = srv.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketUpdate)
		if bkt == nil {
			return xerrors.Errorf("could not access %q bucket", bucketUpdate)
		}

		raw, err := srv.last.MarshalBinary()
		if err != nil {
			return xerrors.Errorf("could not marshal last-update: %w", err)
		}

		return bkt.Put(bucketUpdate, raw)
	})
	if err != nil {
		err = xerrors.Errorf("could not store last-update: %w", err)
		log.Printf("%+v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("updated geodist db with %d legs (%d -> %d)", len(legs),
		legs[0].ID,
		legs[len(legs)-1].ID,
	)
}

func (srv *server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("could not encode JSON reply: %+v", err)
		http.Error(
			w,
			xerrors.Errorf("could not encode JSON reply: %w", err).Error(),
			http.StatusInternalServerError,
		)
		return
	}
}

// legs returns all the legs stored in the database.
func (srv *server) legs() ([]geodist.Leg, error) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()

	var legs []geodist.Leg
	err := srv.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketLegs)
		if bkt == nil {
			return xerrors.Errorf("could not find bucket %q", bucketLegs)
		}
		return bkt.ForEach(func(k, v []byte) error {
			var leg geodist.Leg
			err := leg.UnmarshalBinary(v)
			if err != nil {
				return xerrors.Errorf("could not unmarshal leg: %w", err)
			}
			legs = append(legs, leg)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return legs, nil
}

const rootPage = `
<html>
        <head>
                <title>geodist</title>
                <style>
                </style>
        </head>

        <body>
                <div id="header">
                        <h2>Great-circle distances</h2>
                </div>
				<pre>Last Updated: {{.Updated}} (UTC)</pre>
				<div id="stats">
					<pre>
legs:    {{.Summary.N}}
skipped: {{.Summary.Skipped}}
total:   {{printf "%.1f" .Summary.Total}} {{.Unit}}
min:     {{printf "%.1f" .Summary.Min}} {{.Unit}}
max:     {{printf "%.1f" .Summary.Max}} {{.Unit}}
mean:    {{printf "%.1f" .Summary.Mean}} {{.Unit}}
std-dev: {{printf "%.1f" .Summary.StdDev}} {{.Unit}}
					</pre>
				</div>
                <div id="content">
					<img id="dists-plot" src="/plot/dists" alt="N/A"></img>
                </div>
        </body>
</html>

`

var rootTmpl = template.Must(template.New("geodist").Parse(rootPage))
