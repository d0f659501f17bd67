// Package ephemeris talks to the ephemeris sidecar, a small service wrapping
// the Swiss Ephemeris that computes body longitudes and house frames.
package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"AstroChart/internal/domain/models"
	applogger "AstroChart/pkg/logger"
	xhttp "AstroChart/pkg/http"
)

// ErrInvalidHouses is returned when the sidecar answers with a malformed
// house frame.
var ErrInvalidHouses = errors.New("ephemeris: invalid house frame")

type positionsRequest struct {
	JulianDayUT float64  `json:"julian_day_ut"`
	Bodies      []string `json:"bodies"`
}

type bodyResult struct {
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error,omitempty"`
}

type positionsResponse struct {
	Positions map[string]bodyResult `json:"positions"`
}

type housesRequest struct {
	JulianDayUT float64 `json:"julian_day_ut"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	System      string  `json:"system"`
}

// Client implements repository.EphemerisProvider over HTTP.
type Client struct {
	base *HTTPServiceBase
	log  *applogger.Logger
}

// NewClient builds a client for the sidecar at baseURL.
func NewClient(baseURL string, timeout time.Duration, retries int, l *applogger.Logger) *Client {
	if l == nil {
		l = applogger.Nop()
	}
	hc := xhttp.NewClient(
		xhttp.WithTimeout(timeout),
		xhttp.WithRetries(retries, 100*time.Millisecond),
	)
	return &Client{
		base: NewHTTPServiceBase(baseURL, hc),
		log:  l,
	}
}

// Positions returns the longitudes the sidecar could compute. A body the
// sidecar reports as failed, or answers without a finite longitude, is
// left out and logged.
func (c *Client) Positions(ctx context.Context, jdUT float64, bodies []string) (map[string]float64, error) {
	var resp positionsResponse
	if err := c.base.PostJSON(ctx, "/positions", positionsRequest{JulianDayUT: jdUT, Bodies: bodies}, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(bodies))
	for _, name := range bodies {
		r, ok := resp.Positions[name]
		switch {
		case !ok:
			c.log.Warn("ephemeris: body missing from response", applogger.String("body", name))
		case r.Error != "":
			c.log.Warn("ephemeris: body failed", applogger.String("body", name), applogger.String("reason", r.Error))
		case r.Longitude == nil || math.IsNaN(*r.Longitude) || math.IsInf(*r.Longitude, 0):
			c.log.Warn("ephemeris: body without longitude", applogger.String("body", name))
		default:
			out[name] = *r.Longitude
		}
	}
	return out, nil
}

// Houses returns the twelve cusps plus the angles for the given moment and place.
func (c *Client) Houses(ctx context.Context, jdUT, latitude, longitude float64, system string) (models.HouseFrame, error) {
	var frame models.HouseFrame
	req := housesRequest{JulianDayUT: jdUT, Latitude: latitude, Longitude: longitude, System: system}
	if err := c.base.PostJSON(ctx, "/houses", req, &frame); err != nil {
		return models.HouseFrame{}, err
	}
	if len(frame.Cusps) != 12 {
		return models.HouseFrame{}, fmt.Errorf("%w: got %d cusps", ErrInvalidHouses, len(frame.Cusps))
	}
	return frame, nil
}
