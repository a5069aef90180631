package domain

import (
	"fmt"
	"math"
)

// Reading is one raw accelerometer sample reported by a device.
type Reading struct {
	DeviceID  string  `json:"device_id"`
	Timestamp int64   `json:"timestamp_ns"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// Validate checks what the service needs to route a reading. Axis values are
// not checked: non-finite input is the sender's responsibility.
func (r Reading) Validate() error {
	if r.DeviceID == "" {
		return fmt.Errorf("%w: device_id is required", ErrInvalidReading)
	}
	return nil
}

func (r Reading) IsFinite() bool {
	for _, v := range [3]float64{r.X, r.Y, r.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
