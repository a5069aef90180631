//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// appendLoadtestLabels tags series with the run id so runs can be compared.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	if runID := loadtestRunID(ctx); runID != "" {
		return append(attrs, attribute.String("loadtest.run_id", runID))
	}
	return attrs
}
