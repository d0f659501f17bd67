package ephemeris

import (
	"context"
	"fmt"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"

	"golang.org/x/sync/errgroup"
)

// Query describes one ephemeris lookup for a chart.
type Query struct {
	JulianDayUT float64
	Latitude    float64
	Longitude   float64
	HouseSystem string
	Bodies      []string
}

// Result holds the raw positions and house frame for a Query.
type Result struct {
	Positions map[string]float64
	Houses    models.HouseFrame
}

// Fetch asks the provider for body positions and the house frame
// concurrently. A house failure fails the whole fetch.
func Fetch(ctx context.Context, p repository.EphemerisProvider, q Query) (Result, error) {
	var res Result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		pos, err := p.Positions(gctx, q.JulianDayUT, q.Bodies)
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}
		res.Positions = pos
		return nil
	})
	g.Go(func() error {
		frame, err := p.Houses(gctx, q.JulianDayUT, q.Latitude, q.Longitude, q.HouseSystem)
		if err != nil {
			return fmt.Errorf("houses: %w", err)
		}
		res.Houses = frame
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}
