package models

import (
	"errors"
	"time"
)

// ChartComputedEvent is emitted once per successfully computed chart and is
// what the archive stores.
type ChartComputedEvent struct {
	ChartID       string      `json:"chart_id"`
	ComputedAt    time.Time   `json:"computed_at"`
	PlaceID       string      `json:"place_id"`
	JulianDayUT   float64     `json:"julian_day_ut"`
	SunSign       string      `json:"sun_sign"`
	MoonSign      string      `json:"moon_sign"`
	AscendantSign string      `json:"ascendant_sign"`
	AspectCount   int         `json:"aspect_count"`
	Chart         *NatalChart `json:"chart"`
}

// Validate rejects events that would archive an unusable row.
func (e *ChartComputedEvent) Validate() error {
	if e == nil {
		return errors.New("event: nil")
	}
	if e.ChartID == "" {
		return errors.New("event: chart_id is required")
	}
	if e.Chart == nil {
		return errors.New("event: chart is required")
	}
	if e.ComputedAt.IsZero() {
		return errors.New("event: computed_at is required")
	}
	return nil
}

// NewChartComputedEvent summarises chart for the archive.
func NewChartComputedEvent(chart *NatalChart, placeID string, at time.Time) *ChartComputedEvent {
	return &ChartComputedEvent{
		ChartID:       chart.ID,
		ComputedAt:    at.UTC(),
		PlaceID:       placeID,
		JulianDayUT:   chart.ChartInfo.Location.JulianDayUTC,
		SunSign:       chart.PlanetaryPositions["Sun"].Sign,
		MoonSign:      chart.PlanetaryPositions["Moon"].Sign,
		AscendantSign: chart.PlanetaryPositions["Ascendant"].Sign,
		AspectCount:   len(chart.Aspects),
		Chart:         chart,
	}
}
