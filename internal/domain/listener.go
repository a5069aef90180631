package domain

import "context"

//go:generate mockgen -source=listener.go -destination=listener_mock.go -package=domain

// Listener is notified once for every detected shake.
type Listener interface {
	Name() string
	HearShake(ctx context.Context, event *ShakeEvent) error
}
