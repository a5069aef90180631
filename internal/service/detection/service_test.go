package detection

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
	"go.uber.org/mock/gomock"
)

const ms = int64(time.Millisecond)

// shakeBatch is three readings 200ms apart that confirm a shake on the last one.
func shakeBatch(deviceID string) []domain.Reading {
	return []domain.Reading{
		{DeviceID: deviceID, Timestamp: 200 * ms, X: 0.1, Y: 0.1, Z: 9.8},
		{DeviceID: deviceID, Timestamp: 400 * ms, X: 0.1, Y: 0.1, Z: 12.8},
		{DeviceID: deviceID, Timestamp: 600 * ms, X: 0.1, Y: 0.1, Z: 15.8},
	}
}

func restBatch(deviceID string, start int64, n int) []domain.Reading {
	readings := make([]domain.Reading, n)
	for i := range readings {
		readings[i] = domain.Reading{DeviceID: deviceID, Timestamp: start + int64(i)*10*ms, X: 0.1, Y: 0.1, Z: 9.8}
	}
	return readings
}

type testDeps struct {
	repo     *domain.MockShakeEventRepository
	recorder *domain.MockShakeEventRecorder
	listener *domain.MockListener
}

func newTestService(t *testing.T, maxBatch int) (*Service, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	deps := testDeps{
		repo:     domain.NewMockShakeEventRepository(ctrl),
		recorder: domain.NewMockShakeEventRecorder(ctrl),
		listener: domain.NewMockListener(ctrl),
	}

	svc := NewService(Config{Thresholds: shake.DefaultThresholds(), MaxBatchSize: maxBatch},
		deps.repo, deps.recorder, deps.listener, nil)
	return svc, deps
}

func TestService_ProcessValidation(t *testing.T) {
	tests := []struct {
		name     string
		deviceID string
		readings []domain.Reading
		wantErr  error
	}{
		{
			name:     "missing device id",
			deviceID: "",
			readings: restBatch("", 0, 1),
			wantErr:  domain.ErrInvalidReading,
		},
		{
			name:     "empty batch",
			deviceID: "device-1",
			readings: nil,
			wantErr:  ErrEmptyBatch,
		},
		{
			name:     "batch over the limit",
			deviceID: "device-1",
			readings: restBatch("device-1", 0, 11),
			wantErr:  ErrBatchTooLarge,
		},
		{
			name:     "sample for another device",
			deviceID: "device-1",
			readings: append(restBatch("device-1", 0, 2), domain.Reading{DeviceID: "device-2"}),
			wantErr:  ErrDeviceMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, 10)

			result, err := svc.Process(context.Background(), SourceHTTP, tt.deviceID, tt.readings)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Process() error = %v, want %v", err, tt.wantErr)
			}
			if result != nil {
				t.Errorf("Process() result = %+v, want nil", result)
			}
			if svc.Devices() != 0 {
				t.Errorf("Devices() = %d, rejected batches must not create state", svc.Devices())
			}
		})
	}
}

func TestService_ProcessDetectsShake(t *testing.T) {
	svc, deps := newTestService(t, 0)
	ctx := context.Background()

	var saved *domain.ShakeEvent
	deps.repo.EXPECT().SaveShakeEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.ShakeEvent) error {
			saved = e
			return nil
		})
	deps.listener.EXPECT().HearShake(gomock.Any(), gomock.Any()).Return(nil)
	deps.recorder.EXPECT().RecordShakeEvents(gomock.Any(), gomock.Len(1)).Return(nil)
	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []domain.BatchStatsRecord) error {
			if len(records) != 1 {
				t.Fatalf("got %d batch records, want 1", len(records))
			}
			r := records[0]
			if r.Source != string(SourceHTTP) || r.ProcessedCount != 3 || r.DetectedCount != 1 {
				t.Errorf("unexpected batch record: %+v", r)
			}
			return nil
		})

	result, err := svc.Process(ctx, SourceHTTP, "device-1", shakeBatch("device-1"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !result.ShakeDetected() || len(result.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(result.Events))
	}
	event := result.Events[0]
	if event != saved {
		t.Error("saved event differs from the returned one")
	}
	if event.DeviceID != "device-1" || event.SampleTimestamp != 600*ms {
		t.Errorf("unexpected event: %+v", event)
	}
	if event.SampleCount != 3 || event.AcceleratingCount != 3 {
		t.Errorf("event counts = %d/%d, want 3/3", event.AcceleratingCount, event.SampleCount)
	}
	if result.ProcessedCount != 3 {
		t.Errorf("ProcessedCount = %d, want 3", result.ProcessedCount)
	}
	if result.Window.SampleCount != 0 {
		t.Errorf("window after detection = %+v, want empty", result.Window)
	}
}

func TestService_ProcessWithoutShake(t *testing.T) {
	svc, deps := newTestService(t, 0)

	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.Process(context.Background(), SourceHTTP, "device-1", restBatch("device-1", 0, 5))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.ShakeDetected() {
		t.Error("resting device should not shake")
	}
	if result.Events == nil {
		t.Error("Events should be an empty slice, not nil")
	}
	if result.Window.SampleCount != 5 {
		t.Errorf("Window.SampleCount = %d, want 5", result.Window.SampleCount)
	}
}

func TestService_FailuresAfterDetectionAreNotReturned(t *testing.T) {
	svc, deps := newTestService(t, 0)

	deps.repo.EXPECT().SaveShakeEvent(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	deps.listener.EXPECT().HearShake(gomock.Any(), gomock.Any()).Return(errors.New("queue down"))
	deps.recorder.EXPECT().RecordShakeEvents(gomock.Any(), gomock.Any()).Return(errors.New("influx down"))
	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(errors.New("influx down"))

	result, err := svc.Process(context.Background(), SourceHTTP, "device-1", shakeBatch("device-1"))
	if err != nil {
		t.Fatalf("Process() error = %v, want nil", err)
	}
	if len(result.Events) != 1 {
		t.Errorf("events = %d, want 1", len(result.Events))
	}
}

func TestService_NilListener(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := domain.NewMockShakeEventRepository(ctrl)
	recorder := domain.NewMockShakeEventRecorder(ctrl)

	repo.EXPECT().SaveShakeEvent(gomock.Any(), gomock.Any()).Return(nil)
	recorder.EXPECT().RecordShakeEvents(gomock.Any(), gomock.Any()).Return(nil)
	recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil)

	svc := NewService(Config{}, repo, recorder, nil, nil)

	if _, err := svc.Process(context.Background(), SourceHTTP, "device-1", shakeBatch("device-1")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestService_NonFiniteReadingsAreCounted(t *testing.T) {
	svc, deps := newTestService(t, 0)

	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil)

	readings := []domain.Reading{
		{DeviceID: "device-1", Timestamp: 0, X: math.NaN()},
		{DeviceID: "device-1", Timestamp: 10 * ms, Z: math.Inf(1)},
		{DeviceID: "device-1", Timestamp: 20 * ms, Z: 9.8},
	}

	result, err := svc.Process(context.Background(), SourceHTTP, "device-1", readings)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.NonFiniteCount != 2 {
		t.Errorf("NonFiniteCount = %d, want 2", result.NonFiniteCount)
	}
	if result.ProcessedCount != 3 {
		t.Errorf("ProcessedCount = %d, want 3", result.ProcessedCount)
	}
}

func TestService_DevicesAreIndependent(t *testing.T) {
	svc, deps := newTestService(t, 0)
	ctx := context.Background()

	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	batch := shakeBatch("device-1")

	// Two samples of the shake go to device-1, the third to device-2.
	if _, err := svc.Process(ctx, SourceHTTP, "device-1", batch[:2]); err != nil {
		t.Fatal(err)
	}
	third := batch[2]
	third.DeviceID = "device-2"
	result, err := svc.Process(ctx, SourceHTTP, "device-2", []domain.Reading{third})
	if err != nil {
		t.Fatal(err)
	}
	if result.ShakeDetected() {
		t.Error("device-2 must not see device-1 samples")
	}
	if svc.Devices() != 2 {
		t.Errorf("Devices() = %d, want 2", svc.Devices())
	}
}

func TestService_HandleReadingSkipsBatchStats(t *testing.T) {
	svc, deps := newTestService(t, 0)
	ctx := context.Background()

	deps.repo.EXPECT().SaveShakeEvent(gomock.Any(), gomock.Any()).Return(nil)
	deps.listener.EXPECT().HearShake(gomock.Any(), gomock.Any()).Return(nil)
	deps.recorder.EXPECT().RecordShakeEvents(gomock.Any(), gomock.Len(1)).Return(nil)

	handle := svc.HandleReading(SourceMQTT)
	for _, r := range shakeBatch("device-1") {
		handle(ctx, r)
	}

	// Invalid readings are dropped without reaching any collaborator.
	handle(ctx, domain.Reading{})

	if svc.Devices() != 1 {
		t.Errorf("Devices() = %d, want 1", svc.Devices())
	}
}

func TestService_WindowAndReset(t *testing.T) {
	svc, deps := newTestService(t, 0)
	ctx := context.Background()

	if _, err := svc.Window(ctx, "unknown"); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("Window() error = %v, want ErrDeviceNotFound", err)
	}
	if err := svc.Reset(ctx, "unknown"); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("Reset() error = %v, want ErrDeviceNotFound", err)
	}

	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	batch := shakeBatch("device-1")
	if _, err := svc.Process(ctx, SourceHTTP, "device-1", batch[:2]); err != nil {
		t.Fatal(err)
	}

	w, err := svc.Window(ctx, "device-1")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	want := shake.WindowSnapshot{SampleCount: 2, AcceleratingCount: 2, OldestTimestamp: 200 * ms, NewestTimestamp: 400 * ms}
	if w != want {
		t.Errorf("Window() = %+v, want %+v", w, want)
	}

	if err := svc.Reset(ctx, "device-1"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	// Without the reset this sample would complete the shake.
	result, err := svc.Process(ctx, SourceHTTP, "device-1", batch[2:])
	if err != nil {
		t.Fatal(err)
	}
	if result.ShakeDetected() {
		t.Error("shake detected after Reset()")
	}
}

func TestService_Evict(t *testing.T) {
	svc, deps := newTestService(t, 0)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	deps.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	if _, err := svc.Process(ctx, SourceHTTP, "old", restBatch("old", 0, 1)); err != nil {
		t.Fatal(err)
	}

	now = now.Add(10 * time.Minute)
	if _, err := svc.Process(ctx, SourceHTTP, "fresh", restBatch("fresh", 0, 1)); err != nil {
		t.Fatal(err)
	}

	if n := svc.Evict(ctx, 5*time.Minute); n != 1 {
		t.Errorf("Evict() = %d, want 1", n)
	}
	if _, err := svc.Window(ctx, "old"); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("evicted device still has state: %v", err)
	}
	if _, err := svc.Window(ctx, "fresh"); err != nil {
		t.Errorf("fresh device was evicted: %v", err)
	}
	if n := svc.Evict(ctx, 5*time.Minute); n != 0 {
		t.Errorf("second Evict() = %d, want 0", n)
	}
}

func TestService_RunEvictionStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunEviction(ctx, time.Millisecond, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunEviction did not return after cancel")
	}
}
