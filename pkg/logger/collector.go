package logger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// Publisher ships a batch of digests somewhere durable (Kafka in production).
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	Service        string        // reported on every digest batch
	TimeInterval   time.Duration // flush interval (e.g., 30s)
	CountThreshold int           // unique entries before an early flush
	Topic          string
	Publisher      Publisher
}

// ErrorDigest groups identical error entries seen within one flush window.
type ErrorDigest struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// DigestBatch is the payload published on every flush.
type DigestBatch struct {
	Service   string        `json:"service"`
	Host      string        `json:"host"`
	FlushedAt time.Time     `json:"flushed_at"`
	Entries   []ErrorDigest `json:"entries"`
}

type LogCollector struct {
	config  *CollectionConfig
	host    string
	entries map[string]*ErrorDigest
	mu      sync.Mutex
	flushCh chan []ErrorDigest
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	if config.TimeInterval <= 0 {
		config.TimeInterval = 30 * time.Second
	}
	if config.CountThreshold <= 0 {
		config.CountThreshold = 100
	}
	host, _ := os.Hostname()

	ctx, cancel := context.WithCancel(context.Background())
	c := &LogCollector{
		config:  config,
		host:    host,
		entries: make(map[string]*ErrorDigest),
		flushCh: make(chan []ErrorDigest, 4),
		ctx:     ctx,
		cancel:  cancel,
	}

	c.wg.Add(1)
	go c.run()

	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := digestKey(level, message, fields, caller)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.entries[key] = &ErrorDigest{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	var batch []ErrorDigest
	if len(c.entries) >= c.config.CountThreshold {
		batch = c.drainLocked()
	}
	c.mu.Unlock()

	if batch != nil {
		select {
		case c.flushCh <- batch:
		default:
			// publisher is behind, drop the batch rather than block a log call
		}
	}
}

func digestKey(level, message string, fields map[string]interface{}, caller string) string {
	data, _ := json.Marshal(struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{level, message, fields, caller})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *LogCollector) drainLocked() []ErrorDigest {
	if len(c.entries) == 0 {
		return nil
	}
	out := make([]ErrorDigest, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	c.entries = make(map[string]*ErrorDigest)

	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func (c *LogCollector) drain() []ErrorDigest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drainLocked()
}

func (c *LogCollector) run() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.publish(c.drain())
		case batch := <-c.flushCh:
			c.publish(batch)
		case <-c.ctx.Done():
			for {
				select {
				case batch := <-c.flushCh:
					c.publish(batch)
				default:
					c.publish(c.drain())
					return
				}
			}
		}
	}
}

func (c *LogCollector) publish(entries []ErrorDigest) {
	if len(entries) == 0 || c.config.Publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batch := DigestBatch{
		Service:   c.config.Service,
		Host:      c.host,
		FlushedAt: time.Now().UTC(),
		Entries:   entries,
	}
	if err := c.config.Publisher.PublishMessage(ctx, c.config.Topic, batch); err != nil {
		// the logger itself is the thing failing here
		fmt.Fprintf(os.Stderr, "log collector: publish failed: %v\n", err)
	}
}

// Close stops the flush loop after publishing whatever is pending.
func (c *LogCollector) Close() {
	c.cancel()
	c.wg.Wait()
}
