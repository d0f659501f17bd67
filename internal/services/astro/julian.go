package astro

import "math"

// JulianDay returns the Julian Day for a Gregorian calendar date, with hour
// given as a decimal (14.5 = 14:30).
func JulianDay(year, month, day int, hour float64) float64 {
	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Floor(float64(y) / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + hour/24 + b - 1524.5
}

// JulianDayUT shifts a local-time Julian Day to UT using a UTC offset in hours.
func JulianDayUT(jdLocal, utcOffsetHours float64) float64 {
	return jdLocal - utcOffsetHours/24
}
