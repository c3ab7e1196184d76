package services

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/adityapachauri0/pan-sub000/models"
)

func TestEnrichLocalOriginsSkipNetwork(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	geo := NewGeoEnricher()
	geo.BaseURL = srv.URL

	want := models.LocalLocation()
	for _, addr := range []string{
		"", "unknown", "Unknown",
		"127.0.0.1", "::1", "::ffff:127.0.0.1",
		"192.168.1.50", "10.0.0.8", "172.16.5.4", "fd00::1",
	} {
		got := geo.Enrich(addr)
		if got != want {
			t.Errorf("Enrich(%q) = %+v, want local placeholder", addr, got)
		}
	}

	if atomic.LoadInt64(&calls) != 0 {
		t.Errorf("expected no network calls for local origins, got %d", calls)
	}
}

func TestEnrichMapsServiceResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/203.0.113.5" {
			t.Errorf("unexpected lookup path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","city":"Paris","regionName":"Ile-de-France","country":"France","lat":48.8566,"lon":2.3522}`))
	}))
	defer srv.Close()

	geo := NewGeoEnricher()
	geo.BaseURL = srv.URL

	got := geo.Enrich("203.0.113.5")
	if got.City != "Paris" || got.Region != "Ile-de-France" || got.Country != "France" {
		t.Errorf("unexpected location: %+v", got)
	}
	if got.Lat != 48.8566 || got.Lng != 2.3522 {
		t.Errorf("unexpected coordinates: %+v", got)
	}
}

func TestEnrichStripsDevMarkerBeforeLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/203.0.113.5" {
			t.Errorf("expected marker-less lookup path, got %q", r.URL.Path)
		}
		w.Write([]byte(`{"status":"success","city":"Berlin","regionName":"Berlin","country":"Germany"}`))
	}))
	defer srv.Close()

	geo := NewGeoEnricher()
	geo.BaseURL = srv.URL

	if got := geo.Enrich("203.0.113.5 (dev)"); got.City != "Berlin" {
		t.Errorf("expected lookup on bare address, got %+v", got)
	}
}

func TestEnrichDegradesToUnknown(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-success status field", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail","message":"private range"}`))
		}},
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"city":`))
		}},
	}

	want := models.UnknownLocation()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			geo := NewGeoEnricher()
			geo.BaseURL = srv.URL

			if got := geo.Enrich("203.0.113.5"); got != want {
				t.Errorf("expected unknown placeholder, got %+v", got)
			}
		})
	}
}

func TestEnrichUnreachableServiceDegradesToUnknown(t *testing.T) {
	geo := NewGeoEnricher()
	geo.BaseURL = "http://127.0.0.1:1"

	if got := geo.Enrich("203.0.113.5"); got != models.UnknownLocation() {
		t.Errorf("expected unknown placeholder, got %+v", got)
	}
}

func TestEnrichFillsEmptyFieldsWithUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","country":"France"}`))
	}))
	defer srv.Close()

	geo := NewGeoEnricher()
	geo.BaseURL = srv.URL

	got := geo.Enrich("203.0.113.5")
	if got.City != "Unknown" || got.Region != "Unknown" || got.Country != "France" {
		t.Errorf("expected unknown defaults for absent fields, got %+v", got)
	}
}
