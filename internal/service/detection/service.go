package detection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/metrics"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/tracing"
	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

type Service struct {
	registry     *registry
	maxBatchSize int

	repo     domain.ShakeEventRepository
	recorder domain.ShakeEventRecorder
	listener domain.Listener
	metrics  *metrics.ShakeMetrics

	now func() time.Time
}

// NewService wires the detector registry to its collaborators. listener may
// be nil when nothing needs to hear about shakes.
func NewService(
	cfg Config,
	repo domain.ShakeEventRepository,
	recorder domain.ShakeEventRecorder,
	listener domain.Listener,
	shakeMetrics *metrics.ShakeMetrics,
) *Service {
	return &Service{
		registry:     newRegistry(cfg.Thresholds),
		maxBatchSize: cfg.MaxBatchSize,
		repo:         repo,
		recorder:     recorder,
		listener:     listener,
		metrics:      shakeMetrics,
		now:          time.Now,
	}
}

// Process feeds readings to the device's detector in order. Every detected
// shake is saved, announced to the listener and recorded. Failures after
// detection are logged and do not fail the batch: the detector has already
// moved on.
func (s *Service) Process(ctx context.Context, source Source, deviceID string, readings []domain.Reading) (*Result, error) {
	return s.process(ctx, source, deviceID, readings, true)
}

// HandleReading adapts the service to a domain.SampleSource.
func (s *Service) HandleReading(source Source) domain.ReadingHandler {
	return func(ctx context.Context, reading domain.Reading) {
		if _, err := s.process(ctx, source, reading.DeviceID, []domain.Reading{reading}, false); err != nil {
			slog.WarnContext(ctx, "dropping reading",
				slog.String("source", string(source)),
				slog.String("device_id", reading.DeviceID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) validate(deviceID string, readings []domain.Reading) error {
	if deviceID == "" {
		return fmt.Errorf("%w: device_id is required", domain.ErrInvalidReading)
	}
	if len(readings) == 0 {
		return ErrEmptyBatch
	}
	if s.maxBatchSize > 0 && len(readings) > s.maxBatchSize {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(readings), s.maxBatchSize)
	}
	for i := range readings {
		if readings[i].DeviceID != "" && readings[i].DeviceID != deviceID {
			return fmt.Errorf("%w: sample %d", ErrDeviceMismatch, i)
		}
	}
	return nil
}

func (s *Service) process(ctx context.Context, source Source, deviceID string, readings []domain.Reading, recordStats bool) (*Result, error) {
	if err := s.validate(deviceID, readings); err != nil {
		return nil, err
	}

	start := s.now()

	ctx, span := tracing.StartBatchSpan(ctx, deviceID, string(source), len(readings))
	defer span.End()

	result := &Result{
		DeviceID: deviceID,
		Events:   []*domain.ShakeEvent{},
	}

	st, created := s.registry.acquire(deviceID, start)
	if created {
		s.metrics.AddActiveDetectors(ctx, 1)
		slog.DebugContext(ctx, "detector created", slog.String("device_id", deviceID))
	}

	st.mu.Lock()
	for _, r := range readings {
		if !r.IsFinite() {
			result.NonFiniteCount++
		}

		window, shaking := st.detector.Feed(r.Timestamp, r.X, r.Y, r.Z)
		result.ProcessedCount++
		if shaking {
			result.Events = append(result.Events,
				domain.NewShakeEvent(deviceID, r.Timestamp, window.SampleCount, window.AcceleratingCount))
		}
	}
	result.Window = st.detector.Window()
	st.mu.Unlock()
	s.registry.release(deviceID, st, s.now())

	s.metrics.RecordSamples(ctx, string(source), result.ProcessedCount)
	s.metrics.RecordNonFinite(ctx, string(source), result.NonFiniteCount)

	for _, event := range result.Events {
		s.handleShake(ctx, source, event)
	}

	if len(result.Events) > 0 {
		if err := s.recorder.RecordShakeEvents(ctx, result.Events); err != nil {
			slog.WarnContext(ctx, "failed to record shake events", slog.String("error", err.Error()))
		}
	}

	if recordStats {
		if err := s.recorder.RecordBatchStats(ctx, []domain.BatchStatsRecord{{
			DeviceID:          deviceID,
			Source:            string(source),
			RecordedAt:        start,
			ProcessedCount:    result.ProcessedCount,
			DetectedCount:     len(result.Events),
			NonFiniteCount:    result.NonFiniteCount,
			SampleCount:       result.Window.SampleCount,
			AcceleratingCount: result.Window.AcceleratingCount,
		}}); err != nil {
			slog.WarnContext(ctx, "failed to record batch stats", slog.String("error", err.Error()))
		}
	}

	s.metrics.RecordBatchDuration(ctx, string(source), s.now().Sub(start))
	tracing.RecordBatchResult(span, len(result.Events), result.NonFiniteCount, nil)

	return result, nil
}

func (s *Service) handleShake(ctx context.Context, source Source, event *domain.ShakeEvent) {
	s.metrics.RecordDetection(ctx, string(source))

	slog.InfoContext(ctx, "shake detected",
		slog.String("event", "shake.detected"),
		slog.String("event_id", event.ID),
		slog.String("device_id", event.DeviceID),
		slog.String("source", string(source)),
		slog.Int("sample_count", event.SampleCount),
		slog.Int("accelerating_count", event.AcceleratingCount),
	)

	if err := s.repo.SaveShakeEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to save shake event",
			slog.String("event_id", event.ID),
			slog.String("device_id", event.DeviceID),
			slog.String("error", err.Error()),
		)
	}

	if s.listener == nil {
		return
	}

	if err := s.listener.HearShake(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to notify shake",
			slog.String("event_id", event.ID),
			slog.String("device_id", event.DeviceID),
			slog.String("error", err.Error()),
		)
	}
}

// Reset clears the window and previous reading of a device.
func (s *Service) Reset(ctx context.Context, deviceID string) error {
	st, ok := s.registry.get(deviceID)
	if !ok {
		return domain.ErrDeviceNotFound
	}

	st.mu.Lock()
	st.detector.Reset()
	st.mu.Unlock()

	slog.InfoContext(ctx, "detector reset", slog.String("device_id", deviceID))
	return nil
}

func (s *Service) Window(_ context.Context, deviceID string) (shake.WindowSnapshot, error) {
	st, ok := s.registry.get(deviceID)
	if !ok {
		return shake.WindowSnapshot{}, domain.ErrDeviceNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return st.detector.Window(), nil
}

// Evict drops detectors of devices idle for longer than idle and returns how
// many were dropped.
func (s *Service) Evict(ctx context.Context, idle time.Duration) int {
	evicted := s.registry.evict(s.now().Add(-idle))
	if len(evicted) == 0 {
		return 0
	}

	s.metrics.AddActiveDetectors(ctx, -len(evicted))
	slog.InfoContext(ctx, "idle detectors evicted",
		slog.Int("count", len(evicted)),
		slog.Duration("idle", idle),
	)
	return len(evicted)
}

// RunEviction calls Evict every interval until ctx is done.
func (s *Service) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict(ctx, idle)
		}
	}
}

// Devices returns the number of devices with detector state.
func (s *Service) Devices() int {
	return s.registry.len()
}
