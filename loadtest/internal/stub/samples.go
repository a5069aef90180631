package stub

import "time"

// GenerateSamples returns samples [offset, offset+limit) of a scenario.
// Generation is deterministic so every replay of a run sends the same data.
//
// rest stays near gravity on z, shake flips z every sample so each sample is
// accelerating, and burst is rest with a shake in its middle third.
func GenerateSamples(sc Scenario, offset, limit int) []SampleJSON {
	if offset < 0 {
		offset = 0
	}
	end := min(offset+limit, sc.Count)
	if offset >= end {
		return []SampleJSON{}
	}

	interval := sc.Interval
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}

	samples := make([]SampleJSON, 0, end-offset)
	for i := offset; i < end; i++ {
		ts := int64(i+1) * interval.Nanoseconds()

		shaking := false
		switch sc.Pattern {
		case PatternShake:
			shaking = true
		case PatternBurst:
			shaking = i >= sc.Count/3 && i < 2*sc.Count/3
		}

		if shaking {
			z := 9.8
			if i%2 == 1 {
				z = -9.8
			}
			samples = append(samples, SampleJSON{Timestamp: ts, X: 0.1, Y: 0.1, Z: z})
			continue
		}

		jitter := float64(i%3) * 0.05
		samples = append(samples, SampleJSON{Timestamp: ts, X: 0.1 + jitter, Y: 0.1, Z: 9.8 - jitter})
	}

	return samples
}
