package shake

import "math"

// AccelerationState is one raw tri-axis reading and its magnitude.
// The zero value is the state before any sample has been seen.
type AccelerationState struct {
	X, Y, Z   float64
	Magnitude float64
}

// NewAccelerationState builds the state for a raw reading.
func NewAccelerationState(x, y, z float64) AccelerationState {
	return AccelerationState{
		X:         x,
		Y:         y,
		Z:         z,
		Magnitude: math.Sqrt(x*x + y*y + z*z),
	}
}

// Classifier decides whether a reading differs enough from the previous one
// to count as acceleration.
type Classifier struct {
	magnitudeThreshold float64
	directionThreshold float64
}

// NewClassifier returns a classifier using the thresholds' magnitude and
// direction limits.
func NewClassifier(t Thresholds) Classifier {
	t = t.normalized()
	return Classifier{
		magnitudeThreshold: t.MagnitudeThreshold,
		directionThreshold: t.DirectionThreshold,
	}
}

// Classify compares the reading (x, y, z) against previous and returns the
// verdict together with the state to pass as previous on the next call.
//
// A reading is accelerating when its magnitude moved by more than the magnitude
// threshold, or, failing that, when any axis moved by more than the direction
// threshold. The direction check catches shakes that reverse sign at a constant
// amplitude. Both comparisons are strict.
func (c Classifier) Classify(previous AccelerationState, x, y, z float64) (bool, AccelerationState) {
	current := NewAccelerationState(x, y, z)

	accelerating := c.magnitudeChanged(previous, current)
	if !accelerating {
		accelerating = c.directionChanged(previous, current)
	}

	return accelerating, current
}

func (c Classifier) magnitudeChanged(previous, current AccelerationState) bool {
	return math.Abs(current.Magnitude-previous.Magnitude) > c.magnitudeThreshold
}

func (c Classifier) directionChanged(previous, current AccelerationState) bool {
	return math.Abs(current.X-previous.X) > c.directionThreshold ||
		math.Abs(current.Y-previous.Y) > c.directionThreshold ||
		math.Abs(current.Z-previous.Z) > c.directionThreshold
}
