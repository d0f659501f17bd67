package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches []DigestBatch
}

func (p *recordingPublisher) PublishMessage(_ context.Context, _ string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, payload.(DigestBatch))
	return nil
}

func TestCollectorGroupsIdenticalEntries(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		Service:        "natal-chart",
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})

	for i := 0; i < 3; i++ {
		c.AddLog("error", "ephemeris failed", map[string]interface{}{"body": "Moon"}, "x.go:1")
	}
	c.AddLog("error", "geocode failed", nil, "y.go:2")
	c.Close()

	if len(pub.batches) != 1 {
		t.Fatalf("expected one batch on close, got %d", len(pub.batches))
	}
	b := pub.batches[0]
	if b.Service != "natal-chart" || len(b.Entries) != 2 {
		t.Fatalf("unexpected batch %+v", b)
	}
	if b.Entries[0].Message != "ephemeris failed" || b.Entries[0].Count != 3 {
		t.Fatalf("expected most frequent entry first, got %+v", b.Entries[0])
	}
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Publisher:      pub,
	})
	c.AddLog("error", "a", nil, "")
	c.AddLog("error", "b", nil, "")
	c.AddLog("error", "c", nil, "")
	c.Close()

	total := 0
	for _, b := range pub.batches {
		total += len(b.Entries)
	}
	if len(pub.batches) != 2 || total != 3 {
		t.Fatalf("expected 2 batches with 3 entries, got %d batches %d entries", len(pub.batches), total)
	}
}

func TestLoggerForwardsErrorsOnly(t *testing.T) {
	pub := &recordingPublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 10, Publisher: pub})

	l.Info("fine")
	l.Warn("meh")
	l.Error("broken", Error(errors.New("boom")), String("chart_id", "abc"))
	l.RemoveCollector()

	if len(pub.batches) != 1 || len(pub.batches[0].Entries) != 1 {
		t.Fatalf("unexpected batches %+v", pub.batches)
	}
	e := pub.batches[0].Entries[0]
	if e.Fields["error"] != "boom" || e.Fields["chart_id"] != "abc" {
		t.Fatalf("unexpected fields %+v", e.Fields)
	}
}
