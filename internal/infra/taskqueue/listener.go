package taskqueue

import (
	"context"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
)

const shakeTaskType = "shake"

// Listener hands every detected shake to the task queue.
type Listener struct {
	queue TaskQueue
}

func NewListener(queue TaskQueue) *Listener {
	return &Listener{queue: queue}
}

func (l *Listener) Name() string {
	return "task_queue"
}

func (l *Listener) HearShake(ctx context.Context, event *domain.ShakeEvent) error {
	_, err := l.queue.RegisterNotification(ctx, NewNotificationTask(event))
	return err
}

func NewNotificationTask(event *domain.ShakeEvent) *NotificationTask {
	return &NotificationTask{
		TaskID:            event.ID,
		TaskType:          shakeTaskType,
		DeviceID:          event.DeviceID,
		DetectedAt:        event.DetectedAt,
		SampleTimestamp:   event.SampleTimestamp,
		SampleCount:       event.SampleCount,
		AcceleratingCount: event.AcceleratingCount,
	}
}
