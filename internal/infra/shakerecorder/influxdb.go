//go:build !gcloud

package shakerecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ShakeEventRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "shake recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, shake recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "shake recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return newInfluxDBRecorder(client, writeAPI, cfg), nil
}

func newInfluxDBRecorder(client influxdb2.Client, writeAPI api.WriteAPIBlocking, cfg *Config) *influxDBRecorder {
	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}
}

func shakeEventPoint(event *domain.ShakeEvent) *write.Point {
	return influxdb2.NewPoint(
		"shake_event",
		map[string]string{
			"device_id": event.DeviceID,
		},
		map[string]any{
			"event_id":            event.ID,
			"sample_timestamp_ns": event.SampleTimestamp,
			"sample_count":        event.SampleCount,
			"accelerating_count":  event.AcceleratingCount,
		},
		event.DetectedAt,
	)
}

func batchStatsPoint(record domain.BatchStatsRecord) *write.Point {
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return influxdb2.NewPoint(
		"shake_batch",
		map[string]string{
			"device_id": record.DeviceID,
			"source":    record.Source,
		},
		map[string]any{
			"processed_count":    record.ProcessedCount,
			"detected_count":     record.DetectedCount,
			"nonfinite_count":    record.NonFiniteCount,
			"sample_count":       record.SampleCount,
			"accelerating_count": record.AcceleratingCount,
		},
		recordedAt,
	)
}

// Write failures are logged and dropped: analytics must not fail detection.
func (r *influxDBRecorder) RecordShakeEvents(ctx context.Context, events []*domain.ShakeEvent) error {
	for _, event := range events {
		if err := r.writeAPI.WritePoint(ctx, shakeEventPoint(event)); err != nil {
			slog.WarnContext(ctx, "failed to write shake event to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("device_id", event.DeviceID),
				slog.String("event_id", event.ID),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) RecordBatchStats(ctx context.Context, records []domain.BatchStatsRecord) error {
	for _, record := range records {
		if err := r.writeAPI.WritePoint(ctx, batchStatsPoint(record)); err != nil {
			slog.WarnContext(ctx, "failed to write batch stats to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("device_id", record.DeviceID),
				slog.String("source", record.Source),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
