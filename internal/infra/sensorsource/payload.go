package sensorsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
)

type samplePayload struct {
	Timestamp *int64   `json:"timestamp_ns"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
	Z         *float64 `json:"z"`
}

// DecodeReadings accepts one sample object or an array of them. A payload
// carrying a single sample may omit timestamp_ns and is stamped with now. When
// a payload carries more than one sample every sample needs its own device
// timestamp: one receive time shared by the whole batch would give it no
// elapsed time. A timestamp of 0 is a valid device clock value.
func DecodeReadings(deviceID string, payload []byte, now time.Time) ([]domain.Reading, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}

	var samples []samplePayload
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &samples); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	} else {
		var s samplePayload
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		samples = []samplePayload{s}
	}

	readings := make([]domain.Reading, 0, len(samples))
	for i, s := range samples {
		if s.X == nil || s.Y == nil || s.Z == nil {
			return nil, fmt.Errorf("%w: sample %d is missing an axis", ErrInvalidPayload, i)
		}
		var ts int64
		switch {
		case s.Timestamp != nil:
			ts = *s.Timestamp
		case len(samples) == 1:
			ts = now.UnixNano()
		default:
			return nil, fmt.Errorf("%w: sample %d is missing timestamp_ns", ErrInvalidPayload, i)
		}
		readings = append(readings, domain.Reading{
			DeviceID:  deviceID,
			Timestamp: ts,
			X:         *s.X,
			Y:         *s.Y,
			Z:         *s.Z,
		})
	}

	return readings, nil
}

// deviceIDFromTopic returns the topic level matched by the single "+" in
// filter.
func deviceIDFromTopic(filter, topic string) (string, error) {
	filterLevels := strings.Split(filter, "/")
	topicLevels := strings.Split(topic, "/")
	if len(filterLevels) != len(topicLevels) {
		return "", ErrTopicMismatch
	}

	deviceID := ""
	for i, level := range filterLevels {
		switch level {
		case "+":
			deviceID = topicLevels[i]
		default:
			if level != topicLevels[i] {
				return "", ErrTopicMismatch
			}
		}
	}

	if deviceID == "" {
		return "", ErrTopicMismatch
	}
	return deviceID, nil
}
