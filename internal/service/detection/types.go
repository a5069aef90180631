package detection

import (
	"errors"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

// Source names where a batch came from. It labels metrics and batch stats.
type Source string

const (
	SourceHTTP   Source = "http"
	SourceStream Source = "stream"
	SourceMQTT   Source = "mqtt"
)

var (
	ErrEmptyBatch     = errors.New("no samples in batch")
	ErrBatchTooLarge  = errors.New("too many samples in batch")
	ErrDeviceMismatch = errors.New("sample device_id does not match the request device")
)

type Config struct {
	Thresholds   shake.Thresholds
	MaxBatchSize int
}

// Result summarizes one processed batch.
type Result struct {
	DeviceID       string               `json:"device_id"`
	ProcessedCount int                  `json:"processed_count"`
	NonFiniteCount int                  `json:"nonfinite_count"`
	Events         []*domain.ShakeEvent `json:"events"`
	Window         shake.WindowSnapshot `json:"window"`
}

func (r *Result) ShakeDetected() bool {
	return len(r.Events) > 0
}
