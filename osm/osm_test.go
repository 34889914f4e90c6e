package osm

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.Header.Get("User-Agent"), UserAgent; got != want {
			t.Errorf("invalid user-agent: got=%q, want=%q", got, want)
		}
		q := r.URL.Query()
		if got, want := q.Get("format"), "jsonv2"; got != want {
			t.Errorf("invalid format: got=%q, want=%q", got, want)
		}
		if got, want := q.Get("accept-language"), "fr,en"; got != want {
			t.Errorf("invalid accept-language: got=%q, want=%q", got, want)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocate(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[
	{"place_id": 1, "lat": "45.7774551", "lon": "3.0819427", "display_name": "Clermont-Ferrand, France"},
	{"place_id": 2, "lat": "0", "lon": "0", "display_name": "Null Island"}
]`)

	cli := Client{
		UserAgent:       UserAgent,
		AcceptLanguages: []string{"fr", "en"},
		Endpoint:        srv.URL,
	}

	place, pt, err := cli.Locate("clermont-ferrand")
	if err != nil {
		t.Fatalf("could not locate place: %+v", err)
	}
	if got, want := place.DisplayName, "Clermont-Ferrand, France"; got != want {
		t.Fatalf("invalid place: got=%q, want=%q", got, want)
	}
	if pt.Lat != 45.7774551 || pt.Lng != 3.0819427 {
		t.Fatalf("invalid coordinates: %+v", pt)
	}
}

func TestLocateErrors(t *testing.T) {
	for _, tt := range []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "not-found",
			status: http.StatusOK,
			body:   `[]`,
		},
		{
			name:   "bad-status",
			status: http.StatusServiceUnavailable,
			body:   `overloaded`,
		},
		{
			name:   "bad-json",
			status: http.StatusOK,
			body:   `{`,
		},
		{
			name:   "bad-lat",
			status: http.StatusOK,
			body:   `[{"lat": "north", "lon": "0"}]`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			cli := Client{
				UserAgent:       UserAgent,
				AcceptLanguages: []string{"fr", "en"},
				Endpoint:        srv.URL,
			}
			_, _, err := cli.Locate("somewhere")
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
