package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=shake_event_recorder.go -destination=shake_event_recorder_mock.go -package=domain

// BatchStatsRecord summarizes one ingest batch for analytics.
type BatchStatsRecord struct {
	DeviceID          string
	Source            string
	RecordedAt        time.Time
	ProcessedCount    int
	DetectedCount     int
	NonFiniteCount    int
	SampleCount       int
	AcceleratingCount int
}

type ShakeEventRecorder interface {
	RecordShakeEvents(ctx context.Context, events []*ShakeEvent) error
	RecordBatchStats(ctx context.Context, records []BatchStatsRecord) error
	Flush(ctx context.Context) error
	Close() error
}
