package astro

import "testing"

func equalCusps() []float64 {
	cusps := make([]float64, 12)
	for i := range cusps {
		cusps[i] = float64(i * 30)
	}
	return cusps
}

func TestLocateHouseEqualCusps(t *testing.T) {
	cusps := equalCusps()
	cases := map[float64]int{
		0:    1,
		45:   2,
		180:  7,
		29.9: 1,
		30:   2,
		30.1: 2,
		359:  12,
		-1:   12,
		390:  2,
	}
	for lon, want := range cases {
		if got := LocateHouse(lon, cusps); got != want {
			t.Fatalf("LocateHouse(%v) = %d, want %d", lon, got, want)
		}
	}
}

func TestLocateHouseWrappingFirstHouse(t *testing.T) {
	cusps := []float64{350, 20, 50, 80, 110, 140, 170, 200, 230, 260, 290, 320}
	cases := map[float64]int{
		350: 1,
		355: 1,
		5:   1,
		20:  2,
		-5:  1,
		340: 12,
		200: 8,
	}
	for lon, want := range cases {
		if got := LocateHouse(lon, cusps); got != want {
			t.Fatalf("LocateHouse(%v) = %d, want %d", lon, got, want)
		}
	}
}

func TestLocateHouseMalformedCusps(t *testing.T) {
	for _, cusps := range [][]float64{nil, {}, equalCusps()[:11]} {
		for _, lon := range []float64{0, 100, 359} {
			if got := LocateHouse(lon, cusps); got != 1 {
				t.Fatalf("expected house 1 for %d cusps, got %d", len(cusps), got)
			}
		}
	}
}

func TestLocateHouseNoSpanMatches(t *testing.T) {
	// degenerate cusps never contain anything
	cusps := make([]float64, 12)
	if got := LocateHouse(10, cusps); got != 12 {
		t.Fatalf("expected fallback house 12, got %d", got)
	}
}

func TestLocateHouseAlwaysInRange(t *testing.T) {
	cusps := []float64{101.2, 128.9, 157.3, 188.4, 222.7, 255.1, 281.2, 308.9, 337.3, 8.4, 42.7, 75.1}
	for lon := -400.0; lon < 400; lon += 1.3 {
		h := LocateHouse(lon, cusps)
		if h < 1 || h > 12 {
			t.Fatalf("house %d out of range for %v", h, lon)
		}
	}
}
