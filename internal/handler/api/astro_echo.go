package api

import (
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/service/metrics"
	"AstroChart/internal/services/astro"
	xhttp "AstroChart/pkg/http"
	xlogger "AstroChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AstroEchoHandler exposes the chart geometry without any upstream calls.
type AstroEchoHandler struct {
	logger *xlogger.Logger
}

func NewAstroEchoHandler(logger *xlogger.Logger) *AstroEchoHandler {
	metrics.Register()
	return &AstroEchoHandler{logger: logger}
}

func (h *AstroEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/astro")
	g.GET("/sign", h.Sign)
	g.POST("/house", h.House)
	g.POST("/aspects", h.Aspects)
}

type signResponse struct {
	Longitude float64 `json:"longitude"`
	models.SignPosition
	FormattedPosition string `json:"formattedPosition"`
}

func (h *AstroEchoHandler) Sign(c echo.Context) error {
	defer observe("astro_sign", time.Now())

	lon, ok := xhttp.ParseFloat(c.QueryParam("longitude"))
	if !ok {
		metrics.EndpointErrors.WithLabelValues("astro_sign", "bad_request").Inc()
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("longitude must be a number").WithField("longitude"))
	}

	sp := astro.ToSignPosition(lon)
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return xhttp.SuccessResponse(c, signResponse{
		Longitude:         astro.Normalize(lon),
		SignPosition:      sp,
		FormattedPosition: astro.FormatPosition(sp),
	})
}

func (h *AstroEchoHandler) House(c echo.Context) error {
	defer observe("astro_house", time.Now())

	req := &models.HouseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues("astro_house", "bad_request").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	house := astro.LocateHouse(req.Longitude, req.Cusps)
	return xhttp.SuccessResponse(c, models.HouseResponse{
		House:          house,
		FormattedHouse: astro.FormatHouse(house),
	})
}

func (h *AstroEchoHandler) Aspects(c echo.Context) error {
	defer observe("astro_aspects", time.Now())

	req := &models.AspectsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues("astro_aspects", "bad_request").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	points := make([]astro.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = astro.Point{Name: p.Name, Longitude: p.Longitude}
	}
	aspects := astro.DetectAspects(points)
	h.logger.Debug("aspects detected", xlogger.Int("points", len(points)), xlogger.Int("aspects", len(aspects)))
	return xhttp.SuccessResponse(c, aspects)
}
