// Package astro implements the chart geometry: zodiac signs, houses, aspects
// and assembly of a natal chart from raw ephemeris longitudes.
package astro

import "math"

var zodiacSigns = [12]string{
	"Aries",
	"Taurus",
	"Gemini",
	"Cancer",
	"Leo",
	"Virgo",
	"Libra",
	"Scorpio",
	"Sagittarius",
	"Capricorn",
	"Aquarius",
	"Pisces",
}

// Signs returns the zodiac sign names in order, starting at Aries.
func Signs() []string {
	out := make([]string, len(zodiacSigns))
	copy(out, zodiacSigns[:])
	return out
}

// Normalize wraps any longitude into [0, 360).
func Normalize(longitude float64) float64 {
	n := math.Mod(math.Mod(longitude, 360)+360, 360)
	if n >= 360 { // -tiny + 360 rounds to 360
		return 0
	}
	return n
}
