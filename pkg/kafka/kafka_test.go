package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

type countingHandler struct {
	topic    string
	failures int
	calls    int
}

func (h *countingHandler) Topic() string { return h.topic }

func (h *countingHandler) Handle(_ context.Context, _ []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("downstream unavailable")
	}
	return nil
}

func TestProducerEncodesValues(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")

	err := p.PublishBatch(context.Background(), "charts", []Message{
		{Key: []byte("a"), Value: map[string]int{"n": 1}},
		{Key: []byte("b"), Value: "raw"},
		{Key: []byte("c"), Value: []byte("bytes")},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(w.msgs))
	}
	var decoded map[string]int
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil || decoded["n"] != 1 {
		t.Fatalf("unexpected json value %s", w.msgs[0].Value)
	}
	if string(w.msgs[1].Value) != "raw" || string(w.msgs[2].Value) != "bytes" {
		t.Fatalf("unexpected raw values")
	}
	for _, m := range w.msgs {
		if m.Topic != "charts" {
			t.Fatalf("unexpected topic %s", m.Topic)
		}
	}
}

func TestProducerWrapsWriteErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, "gzip")
	if err := p.Publish(context.Background(), "charts", nil, "x"); err == nil {
		t.Fatalf("expected error")
	}
}

func testConsumer(retries int, dlq bool) (*Consumer, *fakeReader, *fakeWriter) {
	c := newConsumer(nil, &ConsumerConfig{
		WorkerCount: 1,
		BufferSize:  1,
		RetryMax:    retries,
		BackoffMin:  time.Millisecond,
		BackoffMax:  2 * time.Millisecond,
	})
	r := &fakeReader{}
	c.readers["charts"] = r
	w := &fakeWriter{}
	if dlq {
		c.cfg.DLQTopic = "charts-dlq"
		c.dlq = w
	}
	return c, r, w
}

func TestConsumerRetriesThenCommits(t *testing.T) {
	c, r, _ := testConsumer(3, false)
	h := &countingHandler{topic: "charts", failures: 2}
	c.RegisterHandler(h)

	if !c.process(kafka.Message{Topic: "charts", Value: []byte("{}")}) {
		t.Fatalf("expected commit")
	}
	if h.calls != 3 || len(r.committed) != 1 {
		t.Fatalf("calls=%d committed=%d", h.calls, len(r.committed))
	}
}

func TestConsumerDeadLettersAfterRetries(t *testing.T) {
	c, r, dlq := testConsumer(1, true)
	h := &countingHandler{topic: "charts", failures: 10}
	c.RegisterHandler(h)

	if !c.process(kafka.Message{Topic: "charts", Key: []byte("k"), Value: []byte("poison")}) {
		t.Fatalf("expected commit after dead-lettering")
	}
	if h.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", h.calls)
	}
	if len(dlq.msgs) != 1 || dlq.msgs[0].Topic != "charts-dlq" || string(dlq.msgs[0].Value) != "poison" {
		t.Fatalf("unexpected dlq %+v", dlq.msgs)
	}
	if len(r.committed) != 1 {
		t.Fatalf("expected offset commit")
	}
}

func TestConsumerLeavesOffsetWithoutDLQ(t *testing.T) {
	c, r, _ := testConsumer(0, false)
	c.RegisterHandler(&countingHandler{topic: "charts", failures: 10})

	if c.process(kafka.Message{Topic: "charts"}) {
		t.Fatalf("expected no commit")
	}
	if len(r.committed) != 0 {
		t.Fatalf("unexpected commit")
	}
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt < 40; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		if d <= 0 || d > 100*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v out of range", attempt, d)
		}
	}
}
