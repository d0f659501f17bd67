package api

import (
	"context"
	"math"
	"strconv"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	"AstroChart/internal/service/metrics"
	"AstroChart/internal/service/ratelimit"
	xhttp "AstroChart/pkg/http"
	xlogger "AstroChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartService computes charts. Implemented by usecase.ChartCalculator.
type ChartService interface {
	Calculate(ctx context.Context, in models.BirthDataInput) (*models.NatalChart, error)
}

// AnalysisService interprets charts. Implemented by usecase.ChartAnalyzer.
type AnalysisService interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (models.NatalChartAnalysis, error)
}

// ChartsEchoHandler serves chart calculation, retrieval and analysis.
type ChartsEchoHandler struct {
	logger   *xlogger.Logger
	charts   ChartService
	analyzer AnalysisService
	archive  domrepo.ChartArchive
	rl       *ratelimit.Limiter
}

func NewChartsEchoHandler(
	logger *xlogger.Logger,
	charts ChartService,
	analyzer AnalysisService,
	archive domrepo.ChartArchive,
	rl *ratelimit.Limiter,
) *ChartsEchoHandler {
	metrics.Register()
	return &ChartsEchoHandler{logger: logger, charts: charts, analyzer: analyzer, archive: archive, rl: rl}
}

func (h *ChartsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/charts")
	g.POST("", h.Calculate)
	g.POST("/analysis", h.Analyze)
	g.GET("/:id", h.Get)
}

func (h *ChartsEchoHandler) Calculate(c echo.Context) error {
	const endpoint = "charts_calculate"
	defer observe(endpoint, time.Now())

	req := &models.BirthDataInput{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint, "bad_request").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	chart, err := h.charts.Calculate(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpoint, err, xhttp.BadGatewayError)
	}
	return xhttp.SuccessResponse(c, chart)
}

func (h *ChartsEchoHandler) Get(c echo.Context) error {
	const endpoint = "charts_get"
	defer observe(endpoint, time.Now())

	chart, err := h.archive.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, endpoint, err, xhttp.InternalError)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=3600")
	return xhttp.SuccessResponse(c, chart)
}

func (h *ChartsEchoHandler) Analyze(c echo.Context) error {
	const endpoint = "charts_analysis"
	defer observe(endpoint, time.Now())

	if h.rl != nil && !h.rl.Allow(c.RealIP()+":analysis") {
		metrics.RateLimited.WithLabelValues(endpoint).Inc()
		retry := int(math.Ceil(h.rl.RetryAfter(c.RealIP() + ":analysis").Seconds()))
		c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
		h.logger.Warn("analysis rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many analysis requests").WithParam("retryAfter", retry))
	}

	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint, "bad_request").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpoint, err, xhttp.InternalError)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsEchoHandler) fail(c echo.Context, endpoint string, err error, upstream func(string) *xhttp.AppError) error {
	appErr := toAppError(err, upstream)
	kind := errorKind(appErr)
	metrics.EndpointErrors.WithLabelValues(endpoint, kind).Inc()
	if appErr.Status >= 500 {
		h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	} else {
		h.logger.Debug(endpoint+" rejected", xlogger.String("kind", kind), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
