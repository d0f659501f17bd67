package astro

import (
	"fmt"
	"math"

	"AstroChart/internal/domain/models"
)

// ToSignPosition converts an ecliptic longitude into sign, degree and minute.
// Minutes come from the fractional degree of the whole longitude, which is the
// same as the fractional degree within the sign. NaN and infinities have no
// sign and yield the zero SignPosition.
func ToSignPosition(longitude float64) models.SignPosition {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return models.SignPosition{}
	}
	n := Normalize(longitude)

	idx := int(math.Floor(n / 30))
	switch {
	case idx < 0:
		idx = 0
	case idx > 11:
		idx = 11
	}

	return models.SignPosition{
		Sign:    zodiacSigns[idx],
		Degrees: int(math.Floor(math.Mod(n, 30))),
		Minutes: int(math.Floor(math.Mod(n, 1) * 60)),
	}
}

// FormatPosition renders a position as "Taurus 15° 30'".
func FormatPosition(p models.SignPosition) string {
	return fmt.Sprintf("%s %d° %d'", p.Sign, p.Degrees, p.Minutes)
}
