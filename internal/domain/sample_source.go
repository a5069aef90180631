package domain

import "context"

// ReadingHandler consumes readings delivered by a SampleSource.
type ReadingHandler func(ctx context.Context, reading Reading)

// SampleSource delivers raw readings from sensors. Start must not block; Stop
// releases the subscription and may be called more than once.
type SampleSource interface {
	Start(ctx context.Context, handler ReadingHandler) error
	Stop() error
}
