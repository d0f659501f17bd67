package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"AstroChart/internal/domain/models"
	pkgkafka "AstroChart/pkg/kafka"
)

type fakeDB struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (f *fakeDB) ExecContext(_ context.Context, q string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, q)
	f.args = append(f.args, args)
	return nil, f.err
}

func (f *fakeDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("not used")
}

func (f *fakeDB) PingContext(context.Context) error { return f.err }

func chartEvent(id string) *models.ChartComputedEvent {
	chart := &models.NatalChart{
		ID: id,
		ChartBody: models.ChartBody{
			PlanetaryPositions: map[string]models.PlanetaryPosition{
				"Sun":       {Sign: "Leo"},
				"Moon":      {Sign: "Cancer"},
				"Ascendant": {Sign: "Scorpio"},
			},
			Aspects: []models.Aspect{{Planet1: "Sun", AspectType: "Trine", Planet2: "Moon"}},
		},
	}
	return models.NewChartComputedEvent(chart, "place-1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
}

func TestArchiveStoreBatchBuildsSingleInsert(t *testing.T) {
	db := &fakeDB{}
	a := newClickHouseArchive(db, nil)

	evs := []*models.ChartComputedEvent{chartEvent("a"), {ChartID: "invalid"}, chartEvent("b")}
	if err := a.StoreBatch(context.Background(), evs); err != nil {
		t.Fatalf("store batch: %v", err)
	}
	if len(db.queries) != 1 {
		t.Fatalf("expected one insert, got %d", len(db.queries))
	}
	if !strings.HasPrefix(db.queries[0], "INSERT INTO natal_charts") || strings.Count(db.queries[0], "(?, ?, ?, ?, ?, ?, ?, ?, ?)") != 2 {
		t.Fatalf("unexpected query %s", db.queries[0])
	}
	args := db.args[0]
	if len(args) != 18 || args[0] != "a" || args[4] != "Leo" || args[7] != uint16(1) {
		t.Fatalf("unexpected args %v", args)
	}
	if !strings.Contains(args[8].(string), `"id":"a"`) {
		t.Fatalf("chart json not stored: %v", args[8])
	}
}

func TestArchiveStoreWrapsErrors(t *testing.T) {
	db := &fakeDB{err: errors.New("connection refused")}
	a := newClickHouseArchive(db, nil)
	if err := a.Store(context.Background(), chartEvent("a")); err == nil {
		t.Fatalf("expected insert error")
	}
}

func TestArchiveInitRunsSchema(t *testing.T) {
	db := &fakeDB{}
	a := newClickHouseArchive(db, nil)
	if err := a.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(db.queries) != len(ChartsSchema) || !strings.Contains(db.queries[0], "ReplacingMergeTree") {
		t.Fatalf("unexpected ddl %v", db.queries)
	}
}

func TestDecodeChart(t *testing.T) {
	chart, err := decodeChart(`{"id":"x","houseSystem":"Placidus","planetaryPositions":{"Sun":{"sign":"Leo"}}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chart.ID != "x" || chart.PlanetaryPositions["Sun"].Sign != "Leo" {
		t.Fatalf("unexpected chart %+v", chart)
	}
	if _, err := decodeChart("{"); err == nil {
		t.Fatalf("expected decode error")
	}
}

type fakeProducer struct {
	keys   []string
	topics []string
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, _ interface{}) error {
	f.topics = append(f.topics, topic)
	f.keys = append(f.keys, string(key))
	return nil
}

func (f *fakeProducer) PublishBatch(_ context.Context, topic string, msgs []pkgkafka.Message) error {
	for _, m := range msgs {
		f.topics = append(f.topics, topic)
		f.keys = append(f.keys, string(m.Key))
	}
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaPublisherKeysByChartID(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaPublisher{producer: fp, topic: "natal.charts"}

	if err := p.Publish(context.Background(), chartEvent("a")); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.PublishBatch(context.Background(), []*models.ChartComputedEvent{chartEvent("b"), chartEvent("c")}); err != nil {
		t.Fatalf("publish batch: %v", err)
	}
	if strings.Join(fp.keys, ",") != "a,b,c" || fp.topics[2] != "natal.charts" {
		t.Fatalf("unexpected keys %v topics %v", fp.keys, fp.topics)
	}
}
