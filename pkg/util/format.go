package util

import (
	"fmt"
	"math"
	"time"
)

// FormatBirthDate renders a calendar date as "Apr 10, 1987".
func FormatBirthDate(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("Jan 02, 2006")
}

// FormatClock renders a wall-clock time as zero-padded "HH:MM".
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// FormatLatitude renders 40.7128 as "40.71°N" and -33.86 as "33.86°S".
func FormatLatitude(lat float64) string {
	return formatCoordinate(lat, "N", "S")
}

// FormatLongitude renders -74.006 as "74.01°W".
func FormatLongitude(lng float64) string {
	return formatCoordinate(lng, "E", "W")
}

func formatCoordinate(v float64, pos, neg string) string {
	hemi := pos
	if v < 0 {
		hemi = neg
	}
	return fmt.Sprintf("%.2f°%s", math.Abs(v), hemi)
}

// FormatUTCOffset renders an hour offset as "UTC+5.5" or "UTC-5.0".
func FormatUTCOffset(hours float64) string {
	if hours >= 0 {
		return fmt.Sprintf("UTC+%.1f", hours)
	}
	return fmt.Sprintf("UTC%.1f", hours)
}
