package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// taskHeaders are attached to the HTTP request the queue eventually sends to
// the notification worker. The idempotency key lets the worker drop a task
// the queue redelivers.
func taskHeaders(task *NotificationTask) map[string]string {
	return map[string]string{
		"Content-Type":    "application/json",
		"Idempotency-Key": task.TaskID,
	}
}

// registerWithRetry calls attempt up to maxRetries times with exponential
// backoff between calls and returns the first success.
func registerWithRetry(
	ctx context.Context,
	task *NotificationTask,
	maxRetries int,
	attempt func(context.Context) (*TaskResponse, error),
) (*TaskResponse, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			wait := backoff(i)
			slog.DebugContext(ctx, "retrying shake task registration",
				slog.String("task_id", task.TaskID),
				slog.String("device_id", task.DeviceID),
				slog.Int("attempt", i+1),
				slog.Duration("backoff", wait),
			)
			if err := sleepContext(ctx, wait); err != nil {
				return nil, err
			}
		}

		resp, err := attempt(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "shake task registration gave up",
		slog.String("task_id", task.TaskID),
		slog.String("device_id", task.DeviceID),
		slog.Int("max_retries", maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("register shake task after %d attempts: %w", maxRetries, lastErr)
}

// backoff returns the wait before the given zero-based attempt: 100ms, 200ms,
// 400ms and so on.
func backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
