// Copyright 2019 The lpc-eco Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main // import "github.com/sbinet-lpc/geodist/cmd/geodist-srv"

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	Requests  *prometheus.CounterVec
	Distances prometheus.Counter
	BatchSize prometheus.Histogram
	Legs      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geodist_http_requests_total",
			Help: "Total number of HTTP requests, per endpoint and status code.",
		}, []string{"endpoint", "code"}),
		Distances: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geodist_distances_computed_total",
			Help: "Total number of great-circle distances computed.",
		}),
		BatchSize: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geodist_batch_size",
			Help:    "Number of point pairs per batch request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		Legs: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geodist_legs_stored",
			Help: "Current number of legs stored in the database.",
		}),
	}
}

// statusRecorder records the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (m *metrics) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		m.Requests.WithLabelValues(endpoint, strconv.Itoa(rec.code)).Inc()
	}
}
