package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const shakeTracerName = "github.com/KasumiMercury/primind-shake-detection/internal/service/detection"

func ShakeTracer() trace.Tracer {
	return otel.Tracer(shakeTracerName)
}

func StartBatchSpan(ctx context.Context, deviceID, source string, sampleCount int) (context.Context, trace.Span) {
	return ShakeTracer().Start(ctx, "shake.process_batch",
		trace.WithAttributes(
			attribute.String("device.id", deviceID),
			attribute.String("batch.source", source),
			attribute.Int("batch.sample_count", sampleCount),
		),
	)
}

func StartListenerSpan(ctx context.Context, listener, eventID string) (context.Context, trace.Span) {
	return ShakeTracer().Start(ctx, "shake.listener."+listener,
		trace.WithAttributes(
			attribute.String("shake.event_id", eventID),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ShakeTracer().Start(ctx, "shake.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return ShakeTracer().Start(ctx, "shake.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordBatchResult(span trace.Span, detectedCount, nonFiniteCount int, err error) {
	span.SetAttributes(
		attribute.Int("batch.detected_count", detectedCount),
		attribute.Int("batch.nonfinite_count", nonFiniteCount),
	)
	RecordResult(span, err)
}

func RecordResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
