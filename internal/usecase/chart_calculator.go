package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
	drepo "AstroChart/internal/domain/repository"
	"AstroChart/internal/services/astro"
	"AstroChart/internal/services/ephemeris"
	applogger "AstroChart/pkg/logger"
	"AstroChart/pkg/util"

	"github.com/google/uuid"
)

// ErrInvalidBirthDate is returned for a date that does not exist, such as 31 April.
var ErrInvalidBirthDate = errors.New("chart: invalid birth date")

const zodiacTropical = "Tropical"

var houseSystemNames = map[string]string{
	"P": "Placidus",
	"K": "Koch",
	"O": "Porphyry",
	"R": "Regiomontanus",
	"C": "Campanus",
	"E": "Equal",
	"W": "Whole Sign",
}

// HouseSystemName returns the display name of a one-letter house system code.
func HouseSystemName(code string) string {
	if n, ok := houseSystemNames[code]; ok {
		return n
	}
	return code
}

// EventSink receives computed chart events. Implemented by the event pipeline.
type EventSink interface {
	Process(ctx context.Context, ev *models.ChartComputedEvent) error
}

// ChartCalculator turns birth data into a natal chart.
type ChartCalculator struct {
	geocoder    drepo.Geocoder
	ephemeris   drepo.EphemerisProvider
	events      EventSink
	metrics     drepo.Metrics
	log         *applogger.Logger
	houseSystem string
	now         func() time.Time
	newID       func() string
}

// NewChartCalculator wires the calculator. events may be nil to skip archiving.
func NewChartCalculator(
	geocoder drepo.Geocoder,
	eph drepo.EphemerisProvider,
	events EventSink,
	metrics drepo.Metrics,
	l *applogger.Logger,
	houseSystem string,
) *ChartCalculator {
	if l == nil {
		l = applogger.Nop()
	}
	if houseSystem == "" {
		houseSystem = "P"
	}
	return &ChartCalculator{
		geocoder:    geocoder,
		ephemeris:   eph,
		events:      events,
		metrics:     metrics,
		log:         l,
		houseSystem: houseSystem,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Calculate geocodes the birth place, queries the ephemeris and assembles
// the chart. Bodies the ephemeris cannot resolve are skipped; a failed
// house computation fails the chart.
func (c *ChartCalculator) Calculate(ctx context.Context, in models.BirthDataInput) (*models.NatalChart, error) {
	start := c.now()

	// wall clock read as UTC; only used to pick the offset in force at birth
	birth := time.Date(in.Year, time.Month(in.Month), in.Day, in.Hour, in.Minute, 0, 0, time.UTC)
	if birth.Year() != in.Year || int(birth.Month()) != in.Month || birth.Day() != in.Day {
		return nil, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidBirthDate, in.Year, in.Month, in.Day)
	}

	loc, err := c.geocoder.Lookup(ctx, in.PlaceID, birth)
	if err != nil {
		c.metrics.RecordError("geocode")
		return nil, fmt.Errorf("geocode: %w", err)
	}

	jdLocal := astro.JulianDay(in.Year, in.Month, in.Day, float64(in.Hour)+float64(in.Minute)/60)
	jdUT := astro.JulianDayUT(jdLocal, loc.UTCOffsetHours)

	names := make([]string, len(astro.EphemerisBodies))
	for i, b := range astro.EphemerisBodies {
		names[i] = b.String()
	}

	res, err := ephemeris.Fetch(ctx, c.ephemeris, ephemeris.Query{
		JulianDayUT: jdUT,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		HouseSystem: c.houseSystem,
		Bodies:      names,
	})
	if err != nil {
		c.metrics.RecordError("ephemeris")
		return nil, fmt.Errorf("ephemeris: %w", err)
	}

	bodies := make(astro.Longitudes, len(res.Positions))
	for name, lon := range res.Positions {
		if b, ok := astro.ParseBody(name); ok {
			bodies[b] = lon
		}
	}

	body := astro.AssembleChart(astro.Snapshot{
		Bodies: bodies,
		Houses: astro.Houses{
			Cusps:     res.Houses.Cusps,
			Ascendant: res.Houses.Ascendant,
			Midheaven: res.Houses.Midheaven,
		},
	})
	for _, name := range body.SkippedBodies {
		c.metrics.RecordBodySkipped(name)
		c.log.Warn("body skipped", applogger.String("body", name), applogger.Float64("jd_ut", jdUT))
	}

	chart := &models.NatalChart{
		ID: c.newID(),
		ChartInfo: models.ChartInfo{
			LocalDate: models.LocalDateTime{
				Year:          in.Year,
				Month:         in.Month,
				Day:           in.Day,
				Hour:          in.Hour,
				Minute:        in.Minute,
				FormattedDate: util.FormatBirthDate(in.Year, in.Month, in.Day),
				FormattedTime: util.FormatClock(in.Hour, in.Minute),
			},
			Location: models.GeographicData{
				Latitude:           loc.Latitude,
				Longitude:          loc.Longitude,
				TimezoneUTC:        loc.UTCOffsetHours,
				JulianDayUTC:       jdUT,
				LatitudeFormatted:  util.FormatLatitude(loc.Latitude),
				LongitudeFormatted: util.FormatLongitude(loc.Longitude),
				TimezoneFormatted:  util.FormatUTCOffset(loc.UTCOffsetHours),
			},
		},
		ChartBody:   body,
		HouseSystem: HouseSystemName(c.houseSystem),
		ZodiacType:  zodiacTropical,
	}

	c.metrics.RecordChartComputed(chart.HouseSystem)
	c.metrics.RecordLatency("chart_calculate", c.now().Sub(start).Seconds())

	if c.events != nil {
		ev := models.NewChartComputedEvent(chart, in.PlaceID, c.now())
		if err := c.events.Process(ctx, ev); err != nil {
			// the pipeline keeps the event for retry
			c.log.Warn("chart event deferred", applogger.String("chart_id", chart.ID), applogger.Error(err))
		}
	}

	c.log.Info("chart computed",
		applogger.String("chart_id", chart.ID),
		applogger.String("place_id", in.PlaceID),
		applogger.Int("aspects", len(chart.Aspects)),
		applogger.Int("skipped", len(body.SkippedBodies)),
	)
	return chart, nil
}
