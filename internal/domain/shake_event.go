package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShakeEvent is emitted once per detected shake.
type ShakeEvent struct {
	ID                string    `json:"id"`
	DeviceID          string    `json:"device_id"`
	DetectedAt        time.Time `json:"detected_at"`
	SampleTimestamp   int64     `json:"sample_timestamp_ns"`
	SampleCount       int       `json:"sample_count"`
	AcceleratingCount int       `json:"accelerating_count"`
}

func NewShakeEvent(deviceID string, sampleTimestamp int64, sampleCount, acceleratingCount int) *ShakeEvent {
	return &ShakeEvent{
		ID:                uuid.NewString(),
		DeviceID:          deviceID,
		DetectedAt:        time.Now().UTC(),
		SampleTimestamp:   sampleTimestamp,
		SampleCount:       sampleCount,
		AcceleratingCount: acceleratingCount,
	}
}
