package di

import (
	"context"
	"fmt"
	"time"

	"AstroChart/internal/domain/repository"
	domsvc "AstroChart/internal/domain/service"
	"AstroChart/internal/handler/api"
	mid "AstroChart/internal/middleware"
	internalrepo "AstroChart/internal/repository"
	"AstroChart/internal/service/geocode"
	"AstroChart/internal/service/narrative"
	"AstroChart/internal/service/ratelimit"
	"AstroChart/internal/services/ephemeris"
	"AstroChart/internal/usecase"
	"AstroChart/pkg/cache"
	pkgch "AstroChart/pkg/clickhouse"
	"AstroChart/pkg/config"
	xhttp "AstroChart/pkg/http"
	pkgkafka "AstroChart/pkg/kafka"
	applogger "AstroChart/pkg/logger"
	"AstroChart/pkg/metrics"
	"AstroChart/pkg/server"
)

// needsKafka reports whether anything talks to Kafka: the archive backend,
// the consumer or the log collector.
func needsKafka(cfg *config.Config) bool {
	return cfg.Archive.Backend == usecase.BackendKafka ||
		cfg.Kafka.Consumer.Enabled ||
		(cfg.Logging.CollectorTopic != "" && len(cfg.Kafka.Brokers) > 0)
}

// needsClickHouse reports whether charts are written to or read from ClickHouse.
func needsClickHouse(cfg *config.Config) bool {
	return cfg.ClickHouse.Host != "" &&
		(cfg.Archive.Backend != usecase.BackendNone || cfg.Kafka.Consumer.Enabled)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is unused.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !needsKafka(cfg) {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the application logger. Error entries are digested
// and shipped to Kafka when a collector topic is configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Logging.CollectorTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			Service:      "natal-chart",
			TimeInterval: cfg.Logging.FlushInterval,
			Topic:        cfg.Logging.CollectorTopic,
			Publisher:    producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideCache returns an in-process LRU, fronting Redis when enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	memOpts := []cache.MemoryOption{
		cache.WithMemoryTTL(cfg.Cache.MemoryTTL),
		cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Secrets.RedisPassword),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("cache: redis connected", applogger.String("addr", cfg.Cache.Redis.Addr))
	return cache.NewLayeredCache(rc, cfg.Cache.MemoryTTL, memOpts...), nil
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when charts
// are not archived there.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !needsClickHouse(cfg) {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.Secrets.ClickHousePassword),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideChartArchive creates the archive and its schema.
func ProvideChartArchive(ch *pkgch.Client, l *applogger.Logger) (repository.ChartArchive, error) {
	if ch == nil {
		return internalrepo.NoopArchive{}, nil
	}
	archive := internalrepo.NewClickHouseArchive(ch.DB(), l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

// ProvideEventPublisher creates the Kafka chart publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideEventProcessor routes chart events to the configured backend.
func ProvideEventProcessor(
	pub repository.EventPublisher,
	archive repository.ChartArchive,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.EventProcessor {
	return usecase.NewEventProcessor(pub, archive, m, cfg.Archive.Backend)
}

// ProvideEventPipeline buffers events in front of the processor.
func ProvideEventPipeline(proc *usecase.EventProcessor, m repository.Metrics, cfg *config.Config, l *applogger.Logger) *mid.EventPipeline {
	return mid.NewEventPipeline(proc, m,
		mid.WithBufferSize(cfg.Archive.BufferSize),
		mid.WithBackoff(50*time.Millisecond, cfg.Archive.RetryBackoff),
		mid.WithLogger(l),
	)
}

func ProvideEphemeris(cfg *config.Config, l *applogger.Logger) repository.EphemerisProvider {
	return ephemeris.NewClient(cfg.Ephemeris.URL, cfg.Ephemeris.Timeout, cfg.Ephemeris.MaxRetries, l)
}

func ProvideGeocoder(cfg *config.Config, c cache.Service, l *applogger.Logger) repository.Geocoder {
	return geocode.New(cfg.Geocoding.BaseURL, cfg.Secrets.GoogleMapsAPIKey, cfg.Geocoding.Timeout, cfg.Geocoding.CacheTTL, c, l)
}

func ProvideNarrator(cfg *config.Config) domsvc.Narrator {
	return narrative.NewClient(cfg.Narrative.BaseURL, cfg.Secrets.AnthropicAPIKey, cfg.Narrative.Model, cfg.Narrative.Timeout)
}

// ProvideChartCalculator creates the chart use case. Events only flow when
// an archive backend is configured.
func ProvideChartCalculator(
	geo repository.Geocoder,
	eph repository.EphemerisProvider,
	pipe *mid.EventPipeline,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartCalculator {
	var sink usecase.EventSink
	if cfg.Archive.Backend != usecase.BackendNone {
		sink = pipe
	}
	return usecase.NewChartCalculator(geo, eph, sink, m, l, cfg.Ephemeris.HouseSystem)
}

func ProvideChartAnalyzer(
	n domsvc.Narrator,
	c cache.Service,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartAnalyzer {
	return usecase.NewChartAnalyzer(n, c, cfg.Narrative.CacheTTL, cfg.Narrative.Temperature, m, l)
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPHandlers collects every route group served by the app.
func ProvideHTTPHandlers(
	l *applogger.Logger,
	calc *usecase.ChartCalculator,
	analyzer *usecase.ChartAnalyzer,
	archive repository.ChartArchive,
	rl *ratelimit.Limiter,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewChartsEchoHandler(l, calc, analyzer, archive, rl),
		api.NewAstroEchoHandler(l),
		api.NewChartsWSHandler(l, calc),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, handlers []xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideKafkaConsumer creates the chart events consumer when enabled.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.LoggingHook{Log: l})
	return consumer, nil
}

// ProvideChartEventsHandler archives charts consumed from Kafka.
func ProvideChartEventsHandler(archive repository.ChartArchive, m repository.Metrics, cfg *config.Config) *usecase.ChartEventsHandler {
	return usecase.NewChartEventsHandler(cfg.Kafka.Topic, archive, m)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	pipe *mid.EventPipeline,
	proc *usecase.EventProcessor,
	consumer *pkgkafka.Consumer,
	eh *usecase.ChartEventsHandler,
	ch *pkgch.Client,
	c cache.Service,
) *server.App {
	return server.New(cfg, l, srv, pipe, proc, consumer, eh, ch, c)
}
