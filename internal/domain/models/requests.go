package models

// Requests accepted by the HTTP and websocket surfaces. Bound with echo,
// defaulted with creasty/defaults and checked with validator tags.

// BirthDataInput is the local birth moment plus a place identifier.
type BirthDataInput struct {
	Year    int    `json:"year" validate:"gte=1,lte=9999"`
	Month   int    `json:"month" validate:"gte=1,lte=12"`
	Day     int    `json:"day" validate:"gte=1,lte=31"`
	Hour    int    `json:"hour" validate:"gte=0,lte=23"`
	Minute  int    `json:"minute" validate:"gte=0,lte=59"`
	PlaceID string `json:"placeId" validate:"required"`
}

type HouseRequest struct {
	Longitude float64   `json:"longitude"`
	Cusps     []float64 `json:"cusps" validate:"required,len=12,dive,cusp"`
}

type PointInput struct {
	Name      string  `json:"name" validate:"required"`
	Longitude float64 `json:"longitude"`
}

type AspectsRequest struct {
	Points []PointInput `json:"points" validate:"required,min=2,dive"`
}

type HouseResponse struct {
	House          int    `json:"house"`
	FormattedHouse string `json:"formattedHouse"`
}
