// Package shake classifies a stream of 3-axis accelerometer samples as shaking
// or at rest using a bounded time window of recent samples.
//
// A device is considered shaking when at least 75% of the samples taken over
// the past 0.5s are accelerating. The same signature is produced by a free fall
// of about 1.84m (h = 1/2*g*t^2*3/4).
package shake

const (
	// MagnitudeThreshold is the minimum change in total acceleration magnitude
	// between two consecutive samples for the newer one to count as accelerating.
	MagnitudeThreshold = 1.0

	// DirectionThreshold is the minimum change on any single axis for a sample
	// to count as accelerating when the magnitude alone did not change enough.
	DirectionThreshold = 1.3

	// MaxWindowSize is the nominal duration of the sample window in nanoseconds.
	MaxWindowSize int64 = 500_000_000 // 0.5s

	// MinWindowSize is the minimum elapsed time the window must cover before a
	// shake can be reported.
	MinWindowSize = MaxWindowSize / 2 // 0.25s

	// MinQueueSize is the number of samples the window keeps regardless of age.
	// Some devices deliver fewer events than this within MaxWindowSize.
	MinQueueSize = 8
)

// Thresholds groups the tunables of the detector.
type Thresholds struct {
	MagnitudeThreshold float64
	DirectionThreshold float64
	MaxWindowSize      int64
	MinWindowSize      int64
	MinQueueSize       int
}

// DefaultThresholds returns the fixed constants of the algorithm.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MagnitudeThreshold: MagnitudeThreshold,
		DirectionThreshold: DirectionThreshold,
		MaxWindowSize:      MaxWindowSize,
		MinWindowSize:      MinWindowSize,
		MinQueueSize:       MinQueueSize,
	}
}

// normalized replaces non-positive fields with their defaults.
func (t Thresholds) normalized() Thresholds {
	d := DefaultThresholds()
	if t.MagnitudeThreshold <= 0 {
		t.MagnitudeThreshold = d.MagnitudeThreshold
	}
	if t.DirectionThreshold <= 0 {
		t.DirectionThreshold = d.DirectionThreshold
	}
	if t.MaxWindowSize <= 0 {
		t.MaxWindowSize = d.MaxWindowSize
	}
	if t.MinWindowSize <= 0 {
		t.MinWindowSize = t.MaxWindowSize / 2
	}
	if t.MinQueueSize <= 0 {
		t.MinQueueSize = d.MinQueueSize
	}
	return t
}
