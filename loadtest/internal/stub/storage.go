package stub

import (
	"sync"
	"time"
)

// Scenario describes the samples one device replays during a run.
type Scenario struct {
	Pattern  string
	Count    int
	Interval time.Duration
}

type runData struct {
	deliveries []Delivery
	seen       map[string]bool // kind:eventID
	scenarios  map[string]Scenario
}

// RunStorage keeps received notifications and seeded scenarios per run.
type RunStorage struct {
	mu   sync.RWMutex
	runs map[string]*runData
}

func NewRunStorage() *RunStorage {
	return &RunStorage{
		runs: make(map[string]*runData),
	}
}

func (s *RunStorage) run(runID string) *runData {
	r, ok := s.runs[runID]
	if !ok {
		r = &runData{
			seen:      make(map[string]bool),
			scenarios: make(map[string]Scenario),
		}
		s.runs[runID] = r
	}
	return r
}

func (s *RunStorage) Reset(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}

func (s *RunStorage) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]*runData)
}

// RecordDelivery stores d and reports whether the same event already arrived
// through the same kind of delivery.
func (s *RunStorage) RecordDelivery(runID string, d Delivery) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.run(runID)
	key := d.Kind + ":" + d.EventID
	d.Duplicate = r.seen[key]
	r.seen[key] = true
	r.deliveries = append(r.deliveries, d)

	return d.Duplicate
}

func (s *RunStorage) Summary(runID string) DeliverySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := DeliverySummary{
		RunID:   runID,
		Devices: make(map[string]int),
	}

	r, ok := s.runs[runID]
	if !ok {
		return summary
	}

	for _, d := range r.deliveries {
		switch d.Kind {
		case DeliveryWebhook:
			summary.WebhookCount++
		case DeliveryTask:
			summary.TaskCount++
		}
		if d.Duplicate {
			summary.DuplicateCount++
		}
		summary.Devices[d.DeviceID]++
	}

	return summary
}

func (s *RunStorage) SetScenario(runID, deviceID string, sc Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run(runID).scenarios[deviceID] = sc
}

func (s *RunStorage) Scenario(runID, deviceID string) (Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[runID]
	if !ok {
		return Scenario{}, false
	}
	sc, ok := r.scenarios[deviceID]
	return sc, ok
}
