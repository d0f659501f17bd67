package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mid "AstroChart/internal/middleware"
	"AstroChart/internal/usecase"
	"AstroChart/pkg/cache"
	pkgch "AstroChart/pkg/clickhouse"
	"AstroChart/pkg/config"
	xhttp "AstroChart/pkg/http"
	pkgkafka "AstroChart/pkg/kafka"
	applogger "AstroChart/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	pipeline   *mid.EventPipeline
	processor  *usecase.EventProcessor
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	chClient   *pkgch.Client
	cache      cache.Service
}

// New creates a new App instance with all dependencies. consumer and
// chClient may be nil.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	pipeline *mid.EventPipeline,
	processor *usecase.EventProcessor,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	c cache.Service,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        l,
		httpServer: httpServer,
		pipeline:   pipeline,
		processor:  processor,
		consumer:   consumer,
		kh:         kh,
		chClient:   chClient,
		cache:      c,
	}
}

// Start brings up background workers and the HTTP server.
func (a *App) Start(ctx context.Context) error {
	if a.pipeline != nil {
		a.pipeline.Start(ctx)
	}

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		if err := a.consumer.Start(); err != nil {
			return err
		}
		a.log.Info("chart archive consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	a.log.Info("natal chart service started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("archive", a.cfg.Archive.Backend),
		applogger.String("house_system", a.cfg.Ephemeris.HouseSystem),
	)
	return nil
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.Shutdown(ctx)
}

// Shutdown stops intake first, then drains workers, then closes clients.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.httpServer.ShutdownTimeout())
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.pipeline != nil {
		a.pipeline.Stop()
		if n := a.pipeline.Pending(); n > 0 {
			a.log.Warn("dropping buffered chart events", applogger.Int("pending", n))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// flush error digests while the producer is still open
	a.log.RemoveCollector()

	if a.processor != nil {
		a.processor.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
