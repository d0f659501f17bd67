package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/pkg/metrics"
)

type flakyProc struct {
	mu       sync.Mutex
	failures int
	seen     []string
}

func (f *flakyProc) Process(_ context.Context, ev *models.ChartComputedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("archive unavailable")
	}
	f.seen = append(f.seen, ev.ChartID)
	return nil
}

func (f *flakyProc) delivered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func testEvent(id string) *models.ChartComputedEvent {
	return &models.ChartComputedEvent{
		ChartID:    id,
		ComputedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Chart:      &models.NatalChart{ID: id},
	}
}

func TestPipelineRejectsInvalidEvent(t *testing.T) {
	proc := &flakyProc{}
	p := NewEventPipeline(proc, metrics.Nop{})

	if err := p.Process(context.Background(), &models.ChartComputedEvent{ChartID: "x"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(proc.delivered()) != 0 {
		t.Fatalf("invalid event must not reach downstream")
	}
}

func TestPipelineForwards(t *testing.T) {
	proc := &flakyProc{}
	p := NewEventPipeline(proc, metrics.Nop{})

	if err := p.Process(context.Background(), testEvent("a")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := proc.delivered(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected delivery %v", got)
	}
}

func TestPipelineBuffersAndRetries(t *testing.T) {
	proc := &flakyProc{failures: 2}
	p := NewEventPipeline(proc, metrics.Nop{}, WithBackoff(time.Millisecond, 5*time.Millisecond))

	if err := p.Process(context.Background(), testEvent("b")); err == nil {
		t.Fatalf("expected downstream error on first attempt")
	}
	if p.Pending() != 1 {
		t.Fatalf("expected event buffered, pending=%d", p.Pending())
	}

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := proc.delivered(); len(got) == 1 && got[0] == "b" {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("buffered event was never delivered")
}

func TestPipelineDropsWhenBufferFull(t *testing.T) {
	proc := &flakyProc{failures: 10}
	p := NewEventPipeline(proc, metrics.Nop{}, WithBufferSize(1))

	_ = p.Process(context.Background(), testEvent("1"))
	_ = p.Process(context.Background(), testEvent("2"))
	if p.Pending() != 1 {
		t.Fatalf("expected buffer capped at 1, got %d", p.Pending())
	}
}
