package models

import "errors"

var (
	ErrMissingBody   = errors.New("chart: required body missing")
	ErrChartNotFound = errors.New("chart: not found")
)

// SignPosition is a longitude expressed as zodiac sign, degree and arc minute.
type SignPosition struct {
	Sign    string `json:"sign"`
	Degrees int    `json:"degrees"`
	Minutes int    `json:"minutes"`
}

// PlanetaryPosition describes one body (or derived point) of a chart.
type PlanetaryPosition struct {
	EclipticLongitude float64 `json:"eclipticLongitude"`
	Sign              string  `json:"sign"`
	DegreesInSign     int     `json:"degreesInSign"`
	MinutesInSign     int     `json:"minutesInSign"`
	House             int     `json:"house"`
	FormattedPosition string  `json:"formattedPosition"`
	FormattedHouse    string  `json:"formattedHouse"`
}

type HouseCusp struct {
	HouseNumber       int     `json:"houseNumber"`
	EclipticLongitude float64 `json:"eclipticLongitude"`
	Sign              string  `json:"sign"`
	DegreesInSign     int     `json:"degreesInSign"`
	MinutesInSign     int     `json:"minutesInSign"`
	FormattedPosition string  `json:"formattedPosition"`
}

// Aspect is an angular relationship found between two chart points.
type Aspect struct {
	Planet1         string  `json:"planet1"`
	AspectType      string  `json:"aspectType"`
	Planet2         string  `json:"planet2"`
	Orb             float64 `json:"orb"`
	FullDescription string  `json:"fullDescription"`
}

type LocalDateTime struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	Hour          int    `json:"hour"`
	Minute        int    `json:"minute"`
	FormattedDate string `json:"formattedDate"`
	FormattedTime string `json:"formattedTime"`
}

type GeographicData struct {
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	TimezoneUTC        float64 `json:"timezoneUtc"`
	JulianDayUTC       float64 `json:"julianDayUtc"`
	LatitudeFormatted  string  `json:"latitudeFormatted"`
	LongitudeFormatted string  `json:"longitudeFormatted"`
	TimezoneFormatted  string  `json:"timezoneFormatted"`
}

type ChartInfo struct {
	LocalDate LocalDateTime  `json:"localDate"`
	Location  GeographicData `json:"location"`
}

// ChartBody is the geometric part of a chart, produced by the assembler.
type ChartBody struct {
	PlanetaryPositions map[string]PlanetaryPosition `json:"planetaryPositions"`
	HouseCusps         []HouseCusp                  `json:"houseCusps"`
	Aspects            []Aspect                     `json:"aspects"`
	// SkippedBodies lists bodies the ephemeris could not resolve.
	SkippedBodies []string `json:"skippedBodies,omitempty"`
}

type NatalChart struct {
	ID        string    `json:"id"`
	ChartInfo ChartInfo `json:"chartInfo"`
	ChartBody
	HouseSystem string `json:"houseSystem"`
	ZodiacType  string `json:"zodiacType"`
}
