package util

import "testing"

func TestFormatBirthDate(t *testing.T) {
	if got := FormatBirthDate(1987, 4, 10); got != "Apr 10, 1987" {
		t.Fatalf("unexpected date %q", got)
	}
	if got := FormatBirthDate(2001, 12, 3); got != "Dec 03, 2001" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(7, 5); got != "07:05" {
		t.Fatalf("unexpected time %q", got)
	}
}

func TestFormatCoordinates(t *testing.T) {
	cases := map[string]string{
		FormatLatitude(40.7128):   "40.71°N",
		FormatLatitude(-33.8688):  "33.87°S",
		FormatLongitude(-74.006):  "74.01°W",
		FormatLongitude(151.2093): "151.21°E",
		FormatLatitude(0):         "0.00°N",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestFormatUTCOffset(t *testing.T) {
	cases := map[float64]string{
		5.5:  "UTC+5.5",
		0:    "UTC+0.0",
		-5:   "UTC-5.0",
		-3.5: "UTC-3.5",
	}
	for in, want := range cases {
		if got := FormatUTCOffset(in); got != want {
			t.Fatalf("FormatUTCOffset(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if v, ok := ParseFloat(" 12.5 "); !ok || v != 12.5 {
		t.Fatalf("ParseFloat")
	}
	if _, ok := ParseFloat(""); ok {
		t.Fatalf("ParseFloat empty")
	}
	got, err := ParseFloatList("0, 30,60")
	if err != nil || len(got) != 3 || got[1] != 30 {
		t.Fatalf("ParseFloatList %v %v", got, err)
	}
	if _, err := ParseFloatList("1,a"); err == nil {
		t.Fatalf("expected error")
	}
	for _, s := range []string{"NaN", "Inf", "-inf", "+Infinity"} {
		if _, ok := ParseFloat(s); ok {
			t.Fatalf("ParseFloat(%q) accepted a non-finite value", s)
		}
	}
	if _, err := ParseFloatList("0,NaN,60"); err == nil {
		t.Fatalf("expected error for NaN cusp")
	}
}
