package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=shake_event_repository.go -destination=shake_event_repository_mock.go -package=domain

type ShakeEventRepository interface {
	SaveShakeEvent(ctx context.Context, event *ShakeEvent) error
	GetShakeEvent(ctx context.Context, eventID string) (*ShakeEvent, error)
	ListRecentShakeEvents(ctx context.Context, deviceID string, limit int) ([]*ShakeEvent, error)
	GetShakeCount(ctx context.Context, deviceID string) (int, error)
	// MarkDelivered records delivery to the named listener. It returns false
	// when the event was already marked for that listener.
	MarkDelivered(ctx context.Context, eventID, listener string, ttl time.Duration) (bool, error)
	// ClearDelivered removes the mark so the event can be delivered again.
	ClearDelivered(ctx context.Context, eventID, listener string) error
}
