package models

// HouseFrame is the house system returned by the ephemeris for one moment
// and place.
type HouseFrame struct {
	Cusps     []float64 `json:"cusps"`
	Ascendant float64   `json:"ascendant"`
	Midheaven float64   `json:"mc"`
}

// GeoLocation is a resolved birth place.
type GeoLocation struct {
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	UTCOffsetHours float64 `json:"utcOffsetHours"`
}
