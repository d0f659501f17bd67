package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"AstroChart/internal/domain/models"
	"AstroChart/internal/domain/repository"
	applogger "AstroChart/pkg/logger"
)

const chartsTable = "natal_charts"

// ChartsSchema creates the archive table. ReplacingMergeTree keeps the
// latest row per chart so redelivered events do not duplicate charts.
var ChartsSchema = []string{
	`CREATE TABLE IF NOT EXISTS natal_charts (
        chart_id        String,
        computed_at     DateTime64(3, 'UTC'),
        place_id        String,
        jd_ut           Float64,
        sun_sign        LowCardinality(String),
        moon_sign       LowCardinality(String),
        ascendant_sign  LowCardinality(String),
        aspect_count    UInt16,
        chart_json      String
    ) ENGINE = ReplacingMergeTree(computed_at)
    ORDER BY chart_id`,
}

// sqlDB is the subset of *sql.DB the archive uses.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PingContext(ctx context.Context) error
}

// ClickHouseArchive implements ChartArchive for ClickHouse.
type ClickHouseArchive struct {
	db    sqlDB
	table string
	l     *applogger.Logger
}

// NewClickHouseArchive creates the archive over an open pool.
func NewClickHouseArchive(db *sql.DB, l *applogger.Logger) repository.ChartArchive {
	return newClickHouseArchive(db, l)
}

func newClickHouseArchive(db sqlDB, l *applogger.Logger) *ClickHouseArchive {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseArchive{db: db, table: chartsTable, l: l}
}

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	for _, stmt := range ChartsSchema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init archive schema: %w", err)
		}
	}
	return nil
}

func (a *ClickHouseArchive) Store(ctx context.Context, ev *models.ChartComputedEvent) error {
	return a.StoreBatch(ctx, []*models.ChartComputedEvent{ev})
}

func (a *ClickHouseArchive) StoreBatch(ctx context.Context, evs []*models.ChartComputedEvent) error {
	if len(evs) == 0 {
		return nil
	}
	start := time.Now()

	const chunkSize = 500
	stored := 0
	for from := 0; from < len(evs); from += chunkSize {
		to := from + chunkSize
		if to > len(evs) {
			to = len(evs)
		}

		values := make([]string, 0, to-from)
		args := make([]interface{}, 0, (to-from)*9)
		for _, ev := range evs[from:to] {
			if err := ev.Validate(); err != nil {
				a.l.Warn("archive: skipping invalid event", applogger.Error(err))
				continue
			}
			payload, err := json.Marshal(ev.Chart)
			if err != nil {
				return fmt.Errorf("encode chart %s: %w", ev.ChartID, err)
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				ev.ChartID,
				ev.ComputedAt,
				ev.PlaceID,
				ev.JulianDayUT,
				ev.SunSign,
				ev.MoonSign,
				ev.AscendantSign,
				uint16(ev.AspectCount),
				string(payload),
			)
		}
		if len(values) == 0 {
			continue
		}

		q := fmt.Sprintf("INSERT INTO %s (chart_id, computed_at, place_id, jd_ut, sun_sign, moon_sign, ascendant_sign, aspect_count, chart_json) VALUES %s",
			a.table, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			a.l.Error("clickhouse insert charts error", applogger.Int("rows", len(values)), applogger.Error(err))
			return fmt.Errorf("insert charts: %w", err)
		}
		stored += len(values)
	}

	a.l.Debug("clickhouse insert charts ok",
		applogger.Int("rows", stored),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (a *ClickHouseArchive) Get(ctx context.Context, id string) (*models.NatalChart, error) {
	q := fmt.Sprintf("SELECT chart_json FROM %s FINAL WHERE chart_id = ? LIMIT 1", a.table)

	var payload string
	if err := a.db.QueryRowContext(ctx, q, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrChartNotFound
		}
		a.l.Error("clickhouse get chart error", applogger.String("chart_id", id), applogger.Error(err))
		return nil, fmt.Errorf("get chart: %w", err)
	}
	return decodeChart(payload)
}

func decodeChart(payload string) (*models.NatalChart, error) {
	var chart models.NatalChart
	if err := json.Unmarshal([]byte(payload), &chart); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return &chart, nil
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return nil // pool owned by pkg/clickhouse
}

// NoopArchive is used when archiving is disabled.
type NoopArchive struct{}

func (NoopArchive) Init(context.Context) error { return nil }
func (NoopArchive) Store(context.Context, *models.ChartComputedEvent) error { return nil }
func (NoopArchive) StoreBatch(context.Context, []*models.ChartComputedEvent) error { return nil }
func (NoopArchive) Get(context.Context, string) (*models.NatalChart, error) { return nil, models.ErrChartNotFound }
func (NoopArchive) Health(context.Context) error { return nil }
func (NoopArchive) Close() error { return nil }
