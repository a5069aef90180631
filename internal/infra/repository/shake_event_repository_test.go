package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/testutil"
)

func TestSaveAndGetShakeEventSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	repo := NewShakeEventRepository(client)

	event := domain.NewShakeEvent("device-1", 1_500_000_000, 9, 8)
	if err := repo.SaveShakeEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetShakeEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DeviceID != "device-1" || got.SampleTimestamp != 1_500_000_000 || got.AcceleratingCount != 8 {
		t.Errorf("got %+v, want fields of %+v", got, event)
	}
	if !got.DetectedAt.Equal(event.DetectedAt) {
		t.Errorf("DetectedAt = %v, want %v", got.DetectedAt, event.DetectedAt)
	}

	count, err := repo.GetShakeCount(ctx, "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestGetShakeEventNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	repo := NewShakeEventRepository(client)

	_, err := repo.GetShakeEvent(ctx, "missing")
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}

	count, err := repo.GetShakeCount(ctx, "unknown-device")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func TestSaveShakeEventInvalid(t *testing.T) {
	repo := NewShakeEventRepository(nil)

	tests := []struct {
		name  string
		event *domain.ShakeEvent
	}{
		{name: "nil event", event: nil},
		{name: "missing id", event: &domain.ShakeEvent{DeviceID: "d"}},
		{name: "missing device", event: &domain.ShakeEvent{ID: "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.SaveShakeEvent(context.Background(), tt.event)
			if !errors.Is(err, ErrInvalidEventData) {
				t.Errorf("expected ErrInvalidEventData, got %v", err)
			}
		})
	}
}

func TestListRecentShakeEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	repo := NewShakeEventRepository(client)

	total := MaxRecentEvents + 5
	for i := 0; i < total; i++ {
		event := domain.NewShakeEvent("device-2", int64(i), 8, 6)
		event.ID = fmt.Sprintf("event-%d", i)
		if err := repo.SaveShakeEvent(ctx, event); err != nil {
			t.Fatalf("failed to save event %d: %v", i, err)
		}
	}

	tests := []struct {
		name      string
		limit     int
		wantLen   int
		wantFirst string
	}{
		{name: "default limit", limit: 0, wantLen: defaultRecentEvents, wantFirst: fmt.Sprintf("event-%d", total-1)},
		{name: "explicit limit", limit: 3, wantLen: 3, wantFirst: fmt.Sprintf("event-%d", total-1)},
		{name: "limit clamped to cap", limit: 1000, wantLen: MaxRecentEvents, wantFirst: fmt.Sprintf("event-%d", total-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.ListRecentShakeEvents(ctx, "device-2", tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(events) != tt.wantLen {
				t.Fatalf("expected %d events, got %d", tt.wantLen, len(events))
			}
			if events[0].ID != tt.wantFirst {
				t.Errorf("expected newest event %s first, got %s", tt.wantFirst, events[0].ID)
			}
		})
	}

	count, err := repo.GetShakeCount(ctx, "device-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != total {
		t.Errorf("count keeps growing past the list cap: expected %d, got %d", total, count)
	}
}

func TestMarkDelivered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	repo := NewShakeEventRepository(client)

	first, err := repo.MarkDelivered(ctx, "event-1", "webhook", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Error("first delivery should be marked")
	}

	second, err := repo.MarkDelivered(ctx, "event-1", "webhook", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Error("second delivery to the same listener should be rejected")
	}

	other, err := repo.MarkDelivered(ctx, "event-1", "task_queue", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !other {
		t.Error("delivery to another listener should be marked")
	}

	ttl, err := client.TTL(ctx, deliveredKeyPrefix+"event-1:webhook").Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl within 1m, got %v", ttl)
	}

	if err := repo.ClearDelivered(ctx, "event-1", "webhook"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := repo.MarkDelivered(ctx, "event-1", "webhook", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again {
		t.Error("delivery should be markable again after ClearDelivered")
	}
}

func TestSaveShakeEventAppliesTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client := testutil.RedisClient(ctx, t)

	repo := NewShakeEventRepository(client, WithEventTTL(time.Hour))

	event := domain.NewShakeEvent("device-ttl", 1, 4, 4)
	if err := repo.SaveShakeEvent(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := []string{
		eventKeyPrefix + event.ID,
		eventListKeyPrefix + event.DeviceID,
		countKeyPrefix + event.DeviceID,
	}
	for _, key := range keys {
		ttl, err := client.TTL(ctx, key).Result()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ttl <= 0 || ttl > time.Hour {
			t.Errorf("%s: expected ttl within 1h, got %v", key, ttl)
		}
	}
}
