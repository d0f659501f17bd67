package repository

import (
	"context"
	"errors"
	"time"

	"AstroChart/internal/domain/models"
)

// ErrPlaceNotFound is returned by a Geocoder for an unknown place id.
var ErrPlaceNotFound = errors.New("geocode: place not found")

// EphemerisProvider computes raw longitudes for an instant given as a Julian
// Day in Universal Time.
type EphemerisProvider interface {
	// Positions returns the longitude of every body it could compute. Bodies
	// that failed are absent from the map; err is only set when the whole
	// call failed.
	Positions(ctx context.Context, jdUT float64, bodies []string) (map[string]float64, error)
	Houses(ctx context.Context, jdUT, latitude, longitude float64, system string) (models.HouseFrame, error)
}

// Geocoder resolves a place id to coordinates and the UTC offset in force at
// the given instant.
type Geocoder interface {
	Lookup(ctx context.Context, placeID string, at time.Time) (models.GeoLocation, error)
}

// EventPublisher ships chart events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.ChartComputedEvent) error
	PublishBatch(ctx context.Context, evs []*models.ChartComputedEvent) error
	Close() error
}

// ChartArchive stores computed charts for later retrieval.
type ChartArchive interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, ev *models.ChartComputedEvent) error
	StoreBatch(ctx context.Context, evs []*models.ChartComputedEvent) error
	// Get returns models.ErrChartNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.NatalChart, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordChartComputed(houseSystem string)
	RecordBodySkipped(body string)
	RecordEventSent(backend string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
