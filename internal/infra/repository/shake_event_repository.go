package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/tracing"
)

const (
	eventKeyPrefix     = "shake:event:"
	eventListKeyPrefix = "shake:events:"
	countKeyPrefix     = "shake:count:"
	deliveredKeyPrefix = "shake:delivered:"

	defaultEventTTL = 7 * 24 * time.Hour

	// MaxRecentEvents is how many events are kept per device.
	MaxRecentEvents     = 100
	defaultRecentEvents = 20
)

type shakeEventRecord struct {
	ID                string    `json:"id"`
	DeviceID          string    `json:"device_id"`
	DetectedAt        time.Time `json:"detected_at"`
	SampleTimestamp   int64     `json:"sample_timestamp_ns"`
	SampleCount       int       `json:"sample_count"`
	AcceleratingCount int       `json:"accelerating_count"`
}

func toRecord(e *domain.ShakeEvent) shakeEventRecord {
	return shakeEventRecord{
		ID:                e.ID,
		DeviceID:          e.DeviceID,
		DetectedAt:        e.DetectedAt,
		SampleTimestamp:   e.SampleTimestamp,
		SampleCount:       e.SampleCount,
		AcceleratingCount: e.AcceleratingCount,
	}
}

func (r shakeEventRecord) toDomain() *domain.ShakeEvent {
	return &domain.ShakeEvent{
		ID:                r.ID,
		DeviceID:          r.DeviceID,
		DetectedAt:        r.DetectedAt,
		SampleTimestamp:   r.SampleTimestamp,
		SampleCount:       r.SampleCount,
		AcceleratingCount: r.AcceleratingCount,
	}
}

type shakeEventRepository struct {
	client   *redis.Client
	eventTTL time.Duration
}

type Option func(*shakeEventRepository)

// WithEventTTL sets how long an event and its device list are kept. Values
// <= 0 keep the default of 7 days.
func WithEventTTL(ttl time.Duration) Option {
	return func(r *shakeEventRepository) {
		if ttl > 0 {
			r.eventTTL = ttl
		}
	}
}

func NewShakeEventRepository(client *redis.Client, opts ...Option) domain.ShakeEventRepository {
	r := &shakeEventRepository{
		client:   client,
		eventTTL: defaultEventTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *shakeEventRepository) SaveShakeEvent(ctx context.Context, event *domain.ShakeEvent) error {
	if event == nil || event.ID == "" || event.DeviceID == "" {
		return ErrInvalidEventData
	}

	data, err := json.Marshal(toRecord(event))
	if err != nil {
		return ErrInvalidEventData
	}

	listKey := eventListKeyPrefix + event.DeviceID

	ctx, span := tracing.StartRedisOperationSpan(ctx, "save_shake_event", listKey)
	defer span.End()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, eventKeyPrefix+event.ID, data, r.eventTTL)
	pipe.LPush(ctx, listKey, data)
	pipe.LTrim(ctx, listKey, 0, MaxRecentEvents-1)
	pipe.Expire(ctx, listKey, r.eventTTL)
	pipe.Incr(ctx, countKeyPrefix+event.DeviceID)
	// The total restarts once a device has been quiet for eventTTL, together
	// with its list.
	pipe.Expire(ctx, countKeyPrefix+event.DeviceID, r.eventTTL)

	_, err = pipe.Exec(ctx)
	tracing.RecordResult(span, err)
	return err
}

func (r *shakeEventRepository) GetShakeEvent(ctx context.Context, eventID string) (*domain.ShakeEvent, error) {
	data, err := r.client.Get(ctx, eventKeyPrefix+eventID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	var record shakeEventRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, ErrInvalidEventData
	}

	return record.toDomain(), nil
}

// ListRecentShakeEvents returns the newest events first. A non-positive limit
// uses the default and limits above MaxRecentEvents are clamped.
func (r *shakeEventRepository) ListRecentShakeEvents(ctx context.Context, deviceID string, limit int) ([]*domain.ShakeEvent, error) {
	if limit <= 0 {
		limit = defaultRecentEvents
	}
	if limit > MaxRecentEvents {
		limit = MaxRecentEvents
	}

	items, err := r.client.LRange(ctx, eventListKeyPrefix+deviceID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	events := make([]*domain.ShakeEvent, 0, len(items))
	for _, item := range items {
		var record shakeEventRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, ErrInvalidEventData
		}
		events = append(events, record.toDomain())
	}

	return events, nil
}

func (r *shakeEventRepository) GetShakeCount(ctx context.Context, deviceID string) (int, error) {
	val, err := r.client.Get(ctx, countKeyPrefix+deviceID).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	return val, nil
}

func (r *shakeEventRepository) MarkDelivered(ctx context.Context, eventID, listener string, ttl time.Duration) (bool, error) {
	key := deliveredKeyPrefix + eventID + ":" + listener

	ctx, span := tracing.StartRedisOperationSpan(ctx, "mark_delivered", key)
	defer span.End()

	first, err := r.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	tracing.RecordResult(span, err)
	return first, err
}

func (r *shakeEventRepository) ClearDelivered(ctx context.Context, eventID, listener string) error {
	return r.client.Del(ctx, deliveredKeyPrefix+eventID+":"+listener).Err()
}
