package astro

import "AstroChart/internal/domain/models"

// Houses is the house frame returned by the ephemeris.
type Houses struct {
	Cusps     []float64
	Ascendant float64
	Midheaven float64
}

// Snapshot is everything the assembler needs from the ephemeris for one instant.
type Snapshot struct {
	Bodies Longitudes
	Houses Houses
}

// PartOfFortuneLongitude computes Asc + Moon - Sun. It is unavailable when
// either luminary is missing from the snapshot.
func PartOfFortuneLongitude(asc float64, bodies Longitudes) (float64, bool) {
	sun, ok := bodies.Lookup(Sun)
	if !ok {
		return 0, false
	}
	moon, ok := bodies.Lookup(Moon)
	if !ok {
		return 0, false
	}
	return Normalize(asc + moon - sun + 360), true
}

// AssembleChart builds positions, cusps and aspects for a snapshot.
func AssembleChart(s Snapshot) models.ChartBody {
	cusps := s.Houses.Cusps
	positions := make(map[string]models.PlanetaryPosition, len(EphemerisBodies)+3)
	points := make([]Point, 0, len(EphemerisBodies)+3)
	var skipped []string

	for _, b := range EphemerisBodies {
		lon, ok := s.Bodies.Lookup(b)
		if !ok {
			skipped = append(skipped, b.String())
			continue
		}
		positions[b.String()] = newPosition(lon, LocateHouse(lon, cusps))
		points = append(points, Point{Name: b.String(), Longitude: lon})
	}

	// Angles sit on their own cusps.
	positions[Ascendant.String()] = newPosition(s.Houses.Ascendant, 1)
	points = append(points, Point{Name: Ascendant.String(), Longitude: s.Houses.Ascendant})
	positions[Midheaven.String()] = newPosition(s.Houses.Midheaven, 10)
	points = append(points, Point{Name: Midheaven.String(), Longitude: s.Houses.Midheaven})

	if pof, ok := PartOfFortuneLongitude(s.Houses.Ascendant, s.Bodies); ok {
		positions[PartOfFortune.String()] = newPosition(pof, LocateHouse(pof, cusps))
		points = append(points, Point{Name: PartOfFortune.String(), Longitude: pof})
	}

	return models.ChartBody{
		PlanetaryPositions: positions,
		HouseCusps:         BuildHouseCusps(cusps),
		Aspects:            DetectAspects(points),
		SkippedBodies:      skipped,
	}
}

// BuildHouseCusps converts raw cusp longitudes into cusp records.
func BuildHouseCusps(cusps []float64) []models.HouseCusp {
	out := make([]models.HouseCusp, 0, len(cusps))
	for i, c := range cusps {
		sp := ToSignPosition(c)
		out = append(out, models.HouseCusp{
			HouseNumber:       i + 1,
			EclipticLongitude: c,
			Sign:              sp.Sign,
			DegreesInSign:     sp.Degrees,
			MinutesInSign:     sp.Minutes,
			FormattedPosition: FormatPosition(sp),
		})
	}
	return out
}

func newPosition(lon float64, house int) models.PlanetaryPosition {
	sp := ToSignPosition(lon)
	return models.PlanetaryPosition{
		EclipticLongitude: lon,
		Sign:              sp.Sign,
		DegreesInSign:     sp.Degrees,
		MinutesInSign:     sp.Minutes,
		House:             house,
		FormattedPosition: FormatPosition(sp),
		FormattedHouse:    FormatHouse(house),
	}
}
