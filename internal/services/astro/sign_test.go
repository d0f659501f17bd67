package astro

import (
	"math"
	"testing"

	"AstroChart/internal/domain/models"
)

func TestToSignPosition(t *testing.T) {
	cases := []struct {
		lon  float64
		want models.SignPosition
	}{
		{0, models.SignPosition{Sign: "Aries", Degrees: 0, Minutes: 0}},
		{30, models.SignPosition{Sign: "Taurus", Degrees: 0, Minutes: 0}},
		{45.5, models.SignPosition{Sign: "Taurus", Degrees: 15, Minutes: 30}},
		{359, models.SignPosition{Sign: "Pisces", Degrees: 29, Minutes: 0}},
		{359.99, models.SignPosition{Sign: "Pisces", Degrees: 29, Minutes: 59}},
		{-30, models.SignPosition{Sign: "Pisces", Degrees: 0, Minutes: 0}},
		{-45.5, models.SignPosition{Sign: "Aquarius", Degrees: 14, Minutes: 30}},
		{390, models.SignPosition{Sign: "Taurus", Degrees: 0, Minutes: 0}},
		{275.25, models.SignPosition{Sign: "Capricorn", Degrees: 5, Minutes: 15}},
	}
	for _, c := range cases {
		if got := ToSignPosition(c.lon); got != c.want {
			t.Fatalf("ToSignPosition(%v) = %+v, want %+v", c.lon, got, c.want)
		}
	}
}

func TestToSignPositionPeriodic(t *testing.T) {
	for _, lon := range []float64{0, 12.5, 45.75, 180, 299.125, 359.5} {
		base := ToSignPosition(lon)
		for k := -3; k <= 3; k++ {
			if got := ToSignPosition(lon + 360*float64(k)); got != base {
				t.Fatalf("lon %v k=%d: got %+v, want %+v", lon, k, got, base)
			}
		}
	}
}

func TestToSignPositionRanges(t *testing.T) {
	names := map[string]bool{}
	for _, s := range Signs() {
		names[s] = true
	}
	for lon := -720.0; lon < 720; lon += 0.37 {
		p := ToSignPosition(lon)
		if !names[p.Sign] {
			t.Fatalf("unknown sign %q for %v", p.Sign, lon)
		}
		if p.Degrees < 0 || p.Degrees > 29 || p.Minutes < 0 || p.Minutes > 59 {
			t.Fatalf("out of range position %+v for %v", p, lon)
		}
	}
}

func TestFormatPosition(t *testing.T) {
	got := FormatPosition(ToSignPosition(45.5))
	if got != "Taurus 15° 30'" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[float64]float64{0: 0, 360: 0, -90: 270, 725: 5, -1e-15: 0}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestToSignPositionNonFinite(t *testing.T) {
	for _, lon := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := ToSignPosition(lon); got != (models.SignPosition{}) {
			t.Fatalf("ToSignPosition(%v) = %+v, want zero value", lon, got)
		}
	}
}
