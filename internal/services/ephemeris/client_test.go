package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSidecar(t *testing.T, cusps int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/positions":
			var req positionsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JulianDayUT != 2451545 {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"positions":{
				"Sun":{"longitude":280.37},
				"Moon":{"error":"ephemeris file missing"},
				"Mars":{}
			}}`))
		case "/houses":
			var req housesRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.System != "P" {
				http.Error(w, "unknown system", http.StatusBadRequest)
				return
			}
			resp := map[string]interface{}{"ascendant": 24.0, "mc": 280.0}
			c := make([]float64, cusps)
			for i := range c {
				c[i] = float64(i * 30)
			}
			resp["cusps"] = c
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestPositionsSkipsFailedBodies(t *testing.T) {
	srv := newSidecar(t, 12)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 0, nil)
	got, err := c.Positions(context.Background(), 2451545, []string{"Sun", "Moon", "Mars", "Pluto"})
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if len(got) != 1 || got["Sun"] != 280.37 {
		t.Fatalf("unexpected positions %v", got)
	}
}

func TestHouses(t *testing.T) {
	srv := newSidecar(t, 12)
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, 0, nil)
	frame, err := c.Houses(context.Background(), 2451545, 40.7, -74, "P")
	if err != nil {
		t.Fatalf("houses: %v", err)
	}
	if len(frame.Cusps) != 12 || frame.Ascendant != 24 || frame.Midheaven != 280 {
		t.Fatalf("unexpected frame %+v", frame)
	}
}

func TestHousesRejectsMalformedFrame(t *testing.T) {
	srv := newSidecar(t, 11)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 0, nil)
	if _, err := c.Houses(context.Background(), 2451545, 0, 0, "P"); !errors.Is(err, ErrInvalidHouses) {
		t.Fatalf("expected ErrInvalidHouses, got %v", err)
	}
}

func TestHousesUpstreamError(t *testing.T) {
	srv := newSidecar(t, 12)
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 0, nil)
	if _, err := c.Houses(context.Background(), 2451545, 0, 0, "X"); err == nil {
		t.Fatalf("expected error for unknown house system")
	}
}
