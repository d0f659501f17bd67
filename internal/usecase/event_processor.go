package usecase

import (
	"context"
	"fmt"
	"time"

	"AstroChart/internal/domain/models"
	drepo "AstroChart/internal/domain/repository"
)

// Archive backends selectable in config.
const (
	BackendKafka      = "kafka"
	BackendClickHouse = "clickhouse"
	BackendNone       = "none"
)

// EventProcessor routes chart events to the configured archive backend.
type EventProcessor struct {
	pub     drepo.EventPublisher
	store   drepo.ChartArchive
	metrics drepo.Metrics
	backend string
}

// NewEventProcessor creates a new EventProcessor instance.
func NewEventProcessor(
	pub drepo.EventPublisher,
	store drepo.ChartArchive,
	metrics drepo.Metrics,
	backend string,
) *EventProcessor {
	return &EventProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process sends a single event to the configured backend.
func (p *EventProcessor) Process(ctx context.Context, ev *models.ChartComputedEvent) error {
	if ev == nil {
		return fmt.Errorf("event is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case BackendKafka:
		err = p.pub.Publish(ctx, ev)
	case BackendClickHouse:
		err = p.store.Store(ctx, ev)
	case BackendNone:
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process event: %w", err)
	}

	p.metrics.RecordEventSent(p.backend)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch sends multiple events in one round trip.
func (p *EventProcessor) ProcessBatch(ctx context.Context, evs []*models.ChartComputedEvent) error {
	if len(evs) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case BackendKafka:
		err = p.pub.PublishBatch(ctx, evs)
	case BackendClickHouse:
		err = p.store.StoreBatch(ctx, evs)
	case BackendNone:
		return nil
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for range evs {
		p.metrics.RecordEventSent(p.backend)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *EventProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
