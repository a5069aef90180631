package detection

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

func TestRegistry_EvictSkipsHeldDevice(t *testing.T) {
	r := newRegistry(shake.DefaultThresholds())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	held, created := r.acquire("phone-1", start)
	if !created {
		t.Fatal("first acquire should create the device")
	}

	// The batch outlives the idle TTL while still holding its state.
	if evicted := r.evict(start.Add(time.Hour)); len(evicted) != 0 {
		t.Fatalf("evict() = %v, want held device kept", evicted)
	}

	again, created := r.acquire("phone-1", start.Add(time.Hour))
	if created || again != held {
		t.Fatal("concurrent acquire should share the held detector")
	}

	r.release("phone-1", again, start.Add(time.Hour))
	r.release("phone-1", held, start.Add(time.Hour))

	if evicted := r.evict(start.Add(time.Hour)); len(evicted) != 0 {
		t.Errorf("evict() = %v, want device kept: release refreshes last seen", evicted)
	}
	if evicted := r.evict(start.Add(2 * time.Hour)); len(evicted) != 1 || evicted[0] != "phone-1" {
		t.Errorf("evict() = %v, want [phone-1] once released and idle", evicted)
	}
	if r.len() != 0 {
		t.Errorf("len() = %d, want 0", r.len())
	}
}

func TestRegistry_ReleaseAfterEvictionKeepsNewState(t *testing.T) {
	r := newRegistry(shake.DefaultThresholds())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	st, _ := r.acquire("phone-1", start)
	r.release("phone-1", st, start)
	r.evict(start.Add(time.Hour))

	fresh, created := r.acquire("phone-1", start.Add(2*time.Hour))
	if !created {
		t.Fatal("acquire after eviction should create a new detector")
	}
	if fresh.inUse != 1 {
		t.Errorf("inUse = %d, want 1", fresh.inUse)
	}
}
