//go:build gcloud

package shakerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
)

type bigQueryEventRecord struct {
	EventID           string    `bigquery:"event_id"`
	DeviceID          string    `bigquery:"device_id"`
	DetectedAt        time.Time `bigquery:"detected_at"`
	SampleTimestampNs int64     `bigquery:"sample_timestamp_ns"`
	SampleCount       int64     `bigquery:"sample_count"`
	AcceleratingCount int64     `bigquery:"accelerating_count"`
}

type bigQueryBatchRecord struct {
	RecordedAt        time.Time `bigquery:"recorded_at"`
	DeviceID          string    `bigquery:"device_id"`
	Source            string    `bigquery:"source"`
	ProcessedCount    int64     `bigquery:"processed_count"`
	DetectedCount     int64     `bigquery:"detected_count"`
	NonFiniteCount    int64     `bigquery:"nonfinite_count"`
	SampleCount       int64     `bigquery:"sample_count"`
	AcceleratingCount int64     `bigquery:"accelerating_count"`
}

type bigQueryRecorder struct {
	client        *bigquery.Client
	eventInserter *bigquery.Inserter
	batchInserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ShakeEventRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "shake recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, shake recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, shake recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	dataset := client.Dataset(cfg.BigQueryDataset)

	slog.InfoContext(ctx, "shake recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("event_table", cfg.BigQueryEventTable),
		slog.String("batch_table", cfg.BigQueryBatchTable),
	)

	return &bigQueryRecorder{
		client:        client,
		eventInserter: dataset.Table(cfg.BigQueryEventTable).Inserter(),
		batchInserter: dataset.Table(cfg.BigQueryBatchTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordShakeEvents(ctx context.Context, events []*domain.ShakeEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]*bigQueryEventRecord, 0, len(events))
	for _, event := range events {
		rows = append(rows, &bigQueryEventRecord{
			EventID:           event.ID,
			DeviceID:          event.DeviceID,
			DetectedAt:        event.DetectedAt,
			SampleTimestampNs: event.SampleTimestamp,
			SampleCount:       int64(event.SampleCount),
			AcceleratingCount: int64(event.AcceleratingCount),
		})
	}

	if err := r.eventInserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert shake events to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(rows)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) RecordBatchStats(ctx context.Context, records []domain.BatchStatsRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryBatchRecord, 0, len(records))
	for _, record := range records {
		recordedAt := record.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = now
		}
		rows = append(rows, &bigQueryBatchRecord{
			RecordedAt:        recordedAt,
			DeviceID:          record.DeviceID,
			Source:            record.Source,
			ProcessedCount:    int64(record.ProcessedCount),
			DetectedCount:     int64(record.DetectedCount),
			NonFiniteCount:    int64(record.NonFiniteCount),
			SampleCount:       int64(record.SampleCount),
			AcceleratingCount: int64(record.AcceleratingCount),
		})
	}

	if err := r.batchInserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert batch stats to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(rows)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
