package shake

// WindowSnapshot describes the current window of a Detector.
type WindowSnapshot struct {
	SampleCount       int   `json:"sample_count"`
	AcceleratingCount int   `json:"accelerating_count"`
	OldestTimestamp   int64 `json:"oldest_timestamp_ns"`
	NewestTimestamp   int64 `json:"newest_timestamp_ns"`
}

// Detector turns raw readings into debounced shake detections.
//
// A Detector is not safe for concurrent use. Each sensor stream needs its own.
type Detector struct {
	classifier Classifier
	queue      *SampleQueue
	previous   AccelerationState
}

// NewDetector creates a detector with the given thresholds. Zero fields fall
// back to the defaults.
func NewDetector(t Thresholds) *Detector {
	return &Detector{
		classifier: NewClassifier(t),
		queue:      NewSampleQueue(t),
	}
}

// OnSample feeds one reading and reports whether it completed a shake. When it
// does, the window has already been cleared so the same samples cannot trigger
// again.
func (d *Detector) OnSample(timestamp int64, x, y, z float64) bool {
	_, shaking := d.Feed(timestamp, x, y, z)
	return shaking
}

// Feed is OnSample that also returns the window that confirmed the shake, as
// it was just before being cleared. The snapshot is zero when no shake was
// detected.
func (d *Detector) Feed(timestamp int64, x, y, z float64) (WindowSnapshot, bool) {
	accelerating, current := d.classifier.Classify(d.previous, x, y, z)
	d.previous = current

	d.queue.Add(timestamp, accelerating)
	if !d.queue.IsShaking() {
		return WindowSnapshot{}, false
	}

	snapshot := d.Window()
	d.queue.Clear()
	return snapshot, true
}

// Reset forgets the window and the previous reading.
func (d *Detector) Reset() {
	d.queue.Clear()
	d.previous = AccelerationState{}
}

// Previous returns the last reading seen.
func (d *Detector) Previous() AccelerationState {
	return d.previous
}

// Window returns a snapshot of the current window.
func (d *Detector) Window() WindowSnapshot {
	s := WindowSnapshot{
		SampleCount:       d.queue.Len(),
		AcceleratingCount: d.queue.AcceleratingCount(),
	}
	if oldest, ok := d.queue.Oldest(); ok {
		s.OldestTimestamp = oldest.Timestamp
	}
	if newest, ok := d.queue.Newest(); ok {
		s.NewestTimestamp = newest.Timestamp
	}
	return s
}
