package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	applogger "AstroChart/pkg/logger"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, ev *models.ChartComputedEvent) error
}

// EventPipeline sits between chart computation and the archive backend.
// It validates events, forwards them, and buffers them for retry when the
// backend is unavailable so a chart request never waits on the archive.
type EventPipeline struct {
	proc       Proc
	metrics    domrepo.Metrics
	log        *applogger.Logger
	bufSize    int
	bufCh      chan *models.ChartComputedEvent
	stopCh     chan struct{}
	doneCh     chan struct{}
	started    bool
	mu         sync.Mutex
	minBackoff time.Duration
	maxBackoff time.Duration
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets how many events wait for retry while downstream is failing.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBackoff bounds the retry delay of the buffer flusher.
func WithBackoff(min, max time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if min > 0 {
			p.minBackoff = min
		}
		if max >= p.minBackoff {
			p.maxBackoff = max
		}
	}
}

func WithLogger(l *applogger.Logger) PipelineOption {
	return func(p *EventPipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewEventPipeline creates a new pipeline.
func NewEventPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		proc:       proc,
		metrics:    metrics,
		log:        applogger.Nop(),
		bufSize:    1000,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		minBackoff: 50 * time.Millisecond,
		maxBackoff: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.ChartComputedEvent, p.bufSize)
	return p
}

// Start launches background flushing of buffered events.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.flushLoop(ctx)
}

func (p *EventPipeline) flushLoop(ctx context.Context) {
	defer close(p.doneCh)

	backoff := p.minBackoff
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case ev := <-p.bufCh:
			if err := p.proc.Process(ctx, ev); err != nil {
				p.metrics.RecordError("pipeline_flush")
				if backoff < p.maxBackoff {
					backoff *= 2
					if backoff > p.maxBackoff {
						backoff = p.maxBackoff
					}
				}
				select {
				case <-time.After(backoff):
				case <-p.stopCh:
					p.log.Warn("pipeline stopped with event pending", applogger.String("chart_id", ev.ChartID))
					return
				}
				select {
				case p.bufCh <- ev:
				default:
					p.metrics.RecordError("pipeline_buffer_drop")
				}
				continue
			}
			backoff = p.minBackoff
		}
	}
}

// Stop stops the background flushing and waits for it to exit.
func (p *EventPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()

	close(p.stopCh)
	<-p.doneCh
	if n := len(p.bufCh); n > 0 {
		p.log.Warn("pipeline stopped with buffered events", applogger.Int("pending", n))
	}
}

// Pending reports how many events are waiting for retry.
func (p *EventPipeline) Pending() int {
	return len(p.bufCh)
}

// Process validates ev and forwards it downstream, buffering it on failure.
func (p *EventPipeline) Process(ctx context.Context, ev *models.ChartComputedEvent) error {
	start := time.Now()
	if err := ev.Validate(); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}

	if err := p.proc.Process(ctx, ev); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- ev:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}
