package usecase

import (
	"context"
	"encoding/json"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	pkgkafka "AstroChart/pkg/kafka"
)

// ChartEventsHandler consumes chart events from Kafka and archives them.
type ChartEventsHandler struct {
	topic   string
	archive domrepo.ChartArchive
	metrics domrepo.Metrics
}

func NewChartEventsHandler(topic string, archive domrepo.ChartArchive, metrics domrepo.Metrics) *ChartEventsHandler {
	return &ChartEventsHandler{topic: topic, archive: archive, metrics: metrics}
}

func (h *ChartEventsHandler) Topic() string { return h.topic }

func (h *ChartEventsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.ChartComputedEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if err := ev.Validate(); err != nil {
		h.metrics.RecordError("consumer_invalid")
		return err
	}
	// time from computation to the consumer picking it up
	h.metrics.RecordLatency("archive_e2e_seconds", time.Since(ev.ComputedAt).Seconds())

	start := time.Now()
	err := h.archive.Store(ctx, &ev)
	h.metrics.RecordLatency("archive_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordEventSent(BackendClickHouse)
	return nil
}

var _ pkgkafka.MessageHandler = (*ChartEventsHandler)(nil)
