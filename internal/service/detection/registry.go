package detection

import (
	"sync"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

// deviceState is the detector of one device. The core detector is not safe
// for concurrent use, so every access goes through mu.
type deviceState struct {
	mu       sync.Mutex
	detector *shake.Detector

	// inUse counts acquire calls not yet released. Guarded by registry.mu.
	inUse int
}

type registry struct {
	thresholds shake.Thresholds

	mu       sync.Mutex
	devices  map[string]*deviceState
	lastSeen map[string]time.Time
}

func newRegistry(t shake.Thresholds) *registry {
	return &registry{
		thresholds: t,
		devices:    make(map[string]*deviceState),
		lastSeen:   make(map[string]time.Time),
	}
}

// acquire returns the state for deviceID, creating it on first use, and
// reports whether it was created. Every acquire must be paired with release.
func (r *registry) acquire(deviceID string, now time.Time) (*deviceState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen[deviceID] = now

	if st, ok := r.devices[deviceID]; ok {
		st.inUse++
		return st, false
	}

	st := &deviceState{detector: shake.NewDetector(r.thresholds), inUse: 1}
	r.devices[deviceID] = st
	return st, true
}

// release ends a use started by acquire and refreshes lastSeen, so a batch
// that outlasts the idle TTL does not leave its device eligible for eviction.
func (r *registry) release(deviceID string, st *deviceState, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st.inUse--
	if r.devices[deviceID] == st {
		r.lastSeen[deviceID] = now
	}
}

func (r *registry) get(deviceID string) (*deviceState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.devices[deviceID]
	return st, ok
}

// evict drops devices not seen since cutoff and returns their ids. A device
// whose state is still held by an acquire is kept so that a concurrent batch
// cannot end up on a second detector.
func (r *registry) evict(cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, seen := range r.lastSeen {
		if seen.Before(cutoff) && r.devices[id].inUse == 0 {
			delete(r.devices, id)
			delete(r.lastSeen, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.devices)
}
