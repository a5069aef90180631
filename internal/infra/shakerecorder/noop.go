package shakerecorder

import (
	"context"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ShakeEventRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordShakeEvents(_ context.Context, _ []*domain.ShakeEvent) error {
	return nil
}

func (n *noopRecorder) RecordBatchStats(_ context.Context, _ []domain.BatchStatsRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
