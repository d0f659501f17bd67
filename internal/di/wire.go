//go:build wireinject
// +build wireinject

package di

import (
	"AstroChart/pkg/config"
	"AstroChart/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideClickHouseClient,

		// Repositories
		ProvideChartArchive,
		ProvideEventPublisher,

		// Upstream services
		ProvideEphemeris,
		ProvideGeocoder,
		ProvideNarrator,

		// Use cases
		ProvideEventProcessor,
		ProvideEventPipeline,
		ProvideChartCalculator,
		ProvideChartAnalyzer,
		ProvideChartEventsHandler,

		// Transport
		ProvideRateLimiter,
		ProvideHTTPHandlers,
		ProvideHTTPServer,
		ProvideKafkaConsumer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
