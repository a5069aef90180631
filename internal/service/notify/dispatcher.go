package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/metrics"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/tracing"
)

const DefaultDeliveryTTL = 24 * time.Hour

var ErrRedeliveryUnavailable = errors.New("redelivery requires an event repository")

// Dispatcher delivers every shake to all configured listeners. With a
// repository, each (event, listener) pair is delivered at most once within
// the delivery TTL; a failed delivery releases its mark.
type Dispatcher struct {
	listeners   []domain.Listener
	repo        domain.ShakeEventRepository
	deliveryTTL time.Duration
	metrics     *metrics.ShakeMetrics
}

// NewDispatcher skips nil listeners. repo may be nil, which disables
// de-duplication and Redeliver.
func NewDispatcher(
	repo domain.ShakeEventRepository,
	deliveryTTL time.Duration,
	shakeMetrics *metrics.ShakeMetrics,
	listeners ...domain.Listener,
) *Dispatcher {
	if deliveryTTL <= 0 {
		deliveryTTL = DefaultDeliveryTTL
	}

	active := make([]domain.Listener, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			active = append(active, l)
		}
	}

	return &Dispatcher{
		listeners:   active,
		repo:        repo,
		deliveryTTL: deliveryTTL,
		metrics:     shakeMetrics,
	}
}

func (d *Dispatcher) Name() string {
	return "dispatcher"
}

// Listeners returns the names of the active listeners.
func (d *Dispatcher) Listeners() []string {
	names := make([]string, len(d.listeners))
	for i, l := range d.listeners {
		names[i] = l.Name()
	}
	return names
}

// HearShake delivers event to every listener and joins their errors.
func (d *Dispatcher) HearShake(ctx context.Context, event *domain.ShakeEvent) error {
	var errs []error
	for _, l := range d.listeners {
		if err := d.deliver(ctx, l, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, l domain.Listener, event *domain.ShakeEvent) error {
	name := l.Name()

	marked := false
	if d.repo != nil {
		first, err := d.repo.MarkDelivered(ctx, event.ID, name, d.deliveryTTL)
		switch {
		case err != nil:
			// Deliver anyway: a duplicate is better than a lost shake.
			slog.WarnContext(ctx, "failed to mark delivery",
				slog.String("listener", name),
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()),
			)
		case !first:
			slog.DebugContext(ctx, "shake already delivered",
				slog.String("listener", name),
				slog.String("event_id", event.ID),
			)
			return nil
		default:
			marked = true
		}
	}

	spanCtx, span := tracing.StartListenerSpan(ctx, name, event.ID)
	err := l.HearShake(spanCtx, event)
	tracing.RecordResult(span, err)
	span.End()

	if err == nil {
		slog.DebugContext(ctx, "shake delivered",
			slog.String("listener", name),
			slog.String("event_id", event.ID),
		)
		return nil
	}

	d.metrics.RecordListenerFailure(ctx, name)

	if marked {
		if clearErr := d.repo.ClearDelivered(ctx, event.ID, name); clearErr != nil {
			slog.WarnContext(ctx, "failed to clear delivery mark",
				slog.String("listener", name),
				slog.String("event_id", event.ID),
				slog.String("error", clearErr.Error()),
			)
		}
	}

	return err
}

// Redeliver loads a stored event and dispatches it again. Listeners that
// already received it are skipped.
func (d *Dispatcher) Redeliver(ctx context.Context, eventID string) (*domain.ShakeEvent, error) {
	if d.repo == nil {
		return nil, ErrRedeliveryUnavailable
	}

	event, err := d.repo.GetShakeEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "redelivering shake",
		slog.String("event_id", event.ID),
		slog.String("device_id", event.DeviceID),
	)

	return event, d.HearShake(ctx, event)
}
