// Package geocode resolves birth places through the Google Maps Place
// Details and Time Zone APIs.
package geocode

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	"AstroChart/pkg/cache"
	xhttp "AstroChart/pkg/http"
	applogger "AstroChart/pkg/logger"
)

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}

type timeZoneResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"errorMessage"`
	RawOffset    float64 `json:"rawOffset"`
	DstOffset    float64 `json:"dstOffset"`
	TimeZoneID   string  `json:"timeZoneId"`
}

// place is the cacheable part of a lookup; the offset depends on the instant.
type place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client implements repository.Geocoder.
type Client struct {
	baseURL  string
	apiKey   string
	http     *xhttp.Client
	cache    cache.Service
	cacheTTL time.Duration
	log      *applogger.Logger
}

func New(baseURL, apiKey string, timeout, cacheTTL time.Duration, c cache.Service, l *applogger.Logger) *Client {
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithRetries(2, 200*time.Millisecond)),
		cache:    c,
		cacheTTL: cacheTTL,
		log:      l,
	}
}

// Lookup resolves placeID and the UTC offset (standard plus daylight saving)
// in force there at the given instant.
func (c *Client) Lookup(ctx context.Context, placeID string, at time.Time) (models.GeoLocation, error) {
	p, err := cache.GetOrLoad(ctx, c.cache, "geocode:place:"+placeID, c.cacheTTL, func(ctx context.Context) (place, error) {
		return c.placeDetails(ctx, placeID)
	})
	if err != nil {
		return models.GeoLocation{}, err
	}

	offset, err := c.utcOffset(ctx, p.Latitude, p.Longitude, at)
	if err != nil {
		return models.GeoLocation{}, err
	}

	return models.GeoLocation{
		Name:           p.Name,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		UTCOffsetHours: offset,
	}, nil
}

func (c *Client) placeDetails(ctx context.Context, placeID string) (place, error) {
	var resp placeDetailsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/place/details/json",
		QueryParams: map[string][]string{
			"place_id": {placeID},
			"fields":   {"name,geometry"},
			"key":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return place{}, fmt.Errorf("place details: %w", err)
	}

	switch resp.Status {
	case "OK":
	case "NOT_FOUND", "INVALID_REQUEST", "ZERO_RESULTS":
		return place{}, fmt.Errorf("%w: %s", repository.ErrPlaceNotFound, placeID)
	default:
		c.log.Error("place details failed", applogger.String("status", resp.Status), applogger.String("message", resp.ErrorMessage))
		return place{}, fmt.Errorf("place details: status %s", resp.Status)
	}

	return place{
		Name:      resp.Result.Name,
		Latitude:  resp.Result.Geometry.Location.Lat,
		Longitude: resp.Result.Geometry.Location.Lng,
	}, nil
}

func (c *Client) utcOffset(ctx context.Context, lat, lng float64, at time.Time) (float64, error) {
	var resp timeZoneResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/timezone/json",
		QueryParams: map[string][]string{
			"location":  {strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)},
			"timestamp": {strconv.FormatInt(at.Unix(), 10)},
			"key":       {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("time zone: %w", err)
	}
	if resp.Status != "OK" {
		c.log.Error("time zone failed", applogger.String("status", resp.Status), applogger.String("message", resp.ErrorMessage))
		return 0, fmt.Errorf("time zone: status %s", resp.Status)
	}
	return (resp.RawOffset + resp.DstOffset) / 3600, nil
}
