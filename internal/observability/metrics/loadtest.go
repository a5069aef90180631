package metrics

import "context"

// LoadtestRunHeader carries the run id of a synthetic load test.
const LoadtestRunHeader = "x-loadtest-run-id"

type runIDKey struct{}

func WithLoadtestRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

func loadtestRunID(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey{}).(string)
	return v
}
