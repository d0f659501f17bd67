package astro

import "fmt"

const houseCount = 12

// LocateHouse returns the 1-based house containing longitude.
// Cusps must hold exactly 12 house starts in house order; anything else falls
// back to house 1. A longitude sitting exactly on a cusp belongs to the house
// that starts there.
func LocateHouse(longitude float64, cusps []float64) int {
	if len(cusps) != houseCount {
		return 1
	}

	n := Normalize(longitude)

	for i := 0; i < houseCount; i++ {
		current := cusps[i]
		next := cusps[(i+1)%houseCount]

		if next < current {
			// span crosses 0°
			if n >= current || n < next {
				return i + 1
			}
			continue
		}
		if n >= current && n < next {
			return i + 1
		}
	}

	return houseCount
}

// FormatHouse renders a house number as "House 7".
func FormatHouse(house int) string {
	return fmt.Sprintf("House %d", house)
}
