package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	shakeMeterName = "shake.detection"
)

type ShakeMetrics struct {
	samplesProcessed  metric.Int64Counter
	detections        metric.Int64Counter
	nonFiniteSamples  metric.Int64Counter
	batchDuration     metric.Float64Histogram
	activeDetectors   metric.Int64UpDownCounter
	listenerFailures  metric.Int64Counter
	sourceDecodeError metric.Int64Counter
}

func NewShakeMetrics() (*ShakeMetrics, error) {
	meter := otel.Meter(shakeMeterName)

	samplesProcessed, err := meter.Int64Counter(
		"shake_samples_total",
		metric.WithDescription("Total number of accelerometer samples fed to detectors"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, err
	}

	detections, err := meter.Int64Counter(
		"shake_detections_total",
		metric.WithDescription("Total number of detected shakes"),
		metric.WithUnit("{shake}"),
	)
	if err != nil {
		return nil, err
	}

	nonFiniteSamples, err := meter.Int64Counter(
		"shake_nonfinite_samples_total",
		metric.WithDescription("Samples with a NaN or infinite axis value"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, err
	}

	batchDuration, err := meter.Float64Histogram(
		"shake_batch_duration_seconds",
		metric.WithDescription("Time spent processing one batch of samples"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	activeDetectors, err := meter.Int64UpDownCounter(
		"shake_active_detectors",
		metric.WithDescription("Number of devices with detector state in memory"),
		metric.WithUnit("{detector}"),
	)
	if err != nil {
		return nil, err
	}

	listenerFailures, err := meter.Int64Counter(
		"shake_listener_failures_total",
		metric.WithDescription("Failed shake notifications per listener"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	sourceDecodeError, err := meter.Int64Counter(
		"shake_source_decode_errors_total",
		metric.WithDescription("Messages from a sample source that could not be decoded"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	return &ShakeMetrics{
		samplesProcessed:  samplesProcessed,
		detections:        detections,
		nonFiniteSamples:  nonFiniteSamples,
		batchDuration:     batchDuration,
		activeDetectors:   activeDetectors,
		listenerFailures:  listenerFailures,
		sourceDecodeError: sourceDecodeError,
	}, nil
}

func (m *ShakeMetrics) RecordSamples(ctx context.Context, source string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.samplesProcessed.Add(ctx, int64(count), metric.WithAttributes(
		appendLoadtestLabels(ctx, []attribute.KeyValue{attribute.String("source", source)})...,
	))
}

func (m *ShakeMetrics) RecordDetection(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.detections.Add(ctx, 1, metric.WithAttributes(
		appendLoadtestLabels(ctx, []attribute.KeyValue{attribute.String("source", source)})...,
	))
}

func (m *ShakeMetrics) RecordNonFinite(ctx context.Context, source string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.nonFiniteSamples.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("source", source),
	))
}

func (m *ShakeMetrics) RecordBatchDuration(ctx context.Context, source string, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		appendLoadtestLabels(ctx, []attribute.KeyValue{attribute.String("source", source)})...,
	))
}

func (m *ShakeMetrics) AddActiveDetectors(ctx context.Context, delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.activeDetectors.Add(ctx, int64(delta))
}

func (m *ShakeMetrics) RecordListenerFailure(ctx context.Context, listener string) {
	if m == nil {
		return
	}
	m.listenerFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("listener", listener),
	))
}

func (m *ShakeMetrics) RecordSourceDecodeError(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.sourceDecodeError.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}
