package usecase

import (
	"context"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
	drepo "AstroChart/internal/domain/repository"
	domsvc "AstroChart/internal/domain/service"
	"AstroChart/internal/service/narrative"
	"AstroChart/pkg/cache"
	applogger "AstroChart/pkg/logger"
)

// requiredPoints must be present for an analysis prompt.
var requiredPoints = []string{"Sun", "Moon", "Ascendant"}

// ChartAnalyzer produces the written interpretation of a chart.
type ChartAnalyzer struct {
	narrator    domsvc.Narrator
	cache       cache.Service
	cacheTTL    time.Duration
	temperature float64
	metrics     drepo.Metrics
	log         *applogger.Logger
	now         func() time.Time
}

func NewChartAnalyzer(
	narrator domsvc.Narrator,
	c cache.Service,
	cacheTTL time.Duration,
	temperature float64,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *ChartAnalyzer {
	if l == nil {
		l = applogger.Nop()
	}
	return &ChartAnalyzer{
		narrator:    narrator,
		cache:       c,
		cacheTTL:    cacheTTL,
		temperature: temperature,
		metrics:     metrics,
		log:         l,
		now:         time.Now,
	}
}

// Analyze builds the prompt, asks the narrator and splits the answer into
// sections. Identical requests are served from cache.
func (a *ChartAnalyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (models.NatalChartAnalysis, error) {
	for _, name := range requiredPoints {
		if _, ok := req.ChartData.PlanetaryPositions[name]; !ok {
			return models.NatalChartAnalysis{}, fmt.Errorf("%w: %s", models.ErrMissingBody, name)
		}
	}

	key, err := cache.HashKey("analysis", req)
	if err != nil {
		return models.NatalChartAnalysis{}, err
	}

	return cache.GetOrLoad(ctx, a.cache, key, a.cacheTTL, func(ctx context.Context) (models.NatalChartAnalysis, error) {
		start := a.now()
		text, err := a.narrator.Complete(ctx, domsvc.CompletionRequest{
			Prompt:      narrative.BuildPrompt(req.ChartData, req.FullAnalysis),
			MaxTokens:   narrative.EstimateTokenUsage(req.FullAnalysis),
			Temperature: a.temperature,
		})
		if err != nil {
			a.metrics.RecordError("narrative")
			a.log.Error("narrative failed", applogger.Bool("full", req.FullAnalysis), applogger.Error(err))
			return models.NatalChartAnalysis{}, fmt.Errorf("narrative: %w", err)
		}
		a.metrics.RecordLatency("narrative", a.now().Sub(start).Seconds())
		return narrative.ParseAnalysis(text, req.FullAnalysis, a.now()), nil
	})
}
