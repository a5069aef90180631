package shake

import "github.com/gammazero/deque"

// Sample is one classified reading.
type Sample struct {
	Timestamp    int64 // ns
	Accelerating bool
}

// SampleQueue is the window of recent samples, oldest first. It keeps a running
// count of accelerating samples so the shake test is O(1).
//
// Timestamps passed to Add must be non-decreasing. They are not checked.
type SampleQueue struct {
	samples           deque.Deque[Sample]
	acceleratingCount int

	maxWindowSize int64
	minWindowSize int64
	minQueueSize  int
}

// NewSampleQueue creates an empty queue using the window settings of t.
func NewSampleQueue(t Thresholds) *SampleQueue {
	t = t.normalized()
	return &SampleQueue{
		maxWindowSize: t.MaxWindowSize,
		minWindowSize: t.MinWindowSize,
		minQueueSize:  t.MinQueueSize,
	}
}

// Add purges samples that fell out of the window ending at timestamp and
// appends the new sample.
func (q *SampleQueue) Add(timestamp int64, accelerating bool) {
	q.purge(timestamp - q.maxWindowSize)

	q.samples.PushBack(Sample{Timestamp: timestamp, Accelerating: accelerating})
	if accelerating {
		q.acceleratingCount++
	}
}

// purge drops samples older than cutoff while at least minQueueSize remain.
func (q *SampleQueue) purge(cutoff int64) {
	for q.samples.Len() >= q.minQueueSize && q.samples.Front().Timestamp < cutoff {
		removed := q.samples.PopFront()
		if removed.Accelerating {
			q.acceleratingCount--
		}
	}
}

// Clear removes every sample.
func (q *SampleQueue) Clear() {
	q.samples.Clear()
	q.acceleratingCount = 0
}

// IsShaking reports whether the window spans at least the minimum window size
// and at least 3/4 of its samples are accelerating.
func (q *SampleQueue) IsShaking() bool {
	n := q.samples.Len()
	if n == 0 {
		return false
	}

	if q.samples.Back().Timestamp-q.samples.Front().Timestamp < q.minWindowSize {
		return false
	}

	// acceleratingCount/n >= 3/4 without division
	return q.acceleratingCount*4 >= n*3
}

// Len returns the number of samples in the window.
func (q *SampleQueue) Len() int {
	return q.samples.Len()
}

// AcceleratingCount returns the number of accelerating samples in the window.
func (q *SampleQueue) AcceleratingCount() int {
	return q.acceleratingCount
}

// Oldest returns the oldest sample, if any.
func (q *SampleQueue) Oldest() (Sample, bool) {
	if q.samples.Len() == 0 {
		return Sample{}, false
	}
	return q.samples.Front(), true
}

// Newest returns the newest sample, if any.
func (q *SampleQueue) Newest() (Sample, bool) {
	if q.samples.Len() == 0 {
		return Sample{}, false
	}
	return q.samples.Back(), true
}

// Samples copies the window, oldest first.
func (q *SampleQueue) Samples() []Sample {
	out := make([]Sample, q.samples.Len())
	for i := range out {
		out[i] = q.samples.At(i)
	}
	return out
}
