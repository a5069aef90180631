package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/detection"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/notify"
	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

// shakeSamples confirms a shake on the third sample.
const shakeSamples = `[
	{"timestamp_ns":200000000,"x":0.1,"y":0.1,"z":9.8},
	{"timestamp_ns":400000000,"x":0.1,"y":0.1,"z":12.8},
	{"timestamp_ns":600000000,"x":0.1,"y":0.1,"z":15.8}
]`

type testEnv struct {
	router   *gin.Engine
	repo     *domain.MockShakeEventRepository
	recorder *domain.MockShakeEventRecorder
	listener *domain.MockListener
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	env := &testEnv{
		repo:     domain.NewMockShakeEventRepository(ctrl),
		recorder: domain.NewMockShakeEventRecorder(ctrl),
		listener: domain.NewMockListener(ctrl),
	}
	env.listener.EXPECT().Name().Return("webhook").AnyTimes()

	dispatcher := notify.NewDispatcher(env.repo, time.Hour, nil, env.listener)
	svc := detection.NewService(
		detection.Config{Thresholds: shake.DefaultThresholds(), MaxBatchSize: 5},
		env.repo, env.recorder, dispatcher, nil,
	)

	samples := NewSampleHandler(svc)
	shakes := NewShakeHandler(env.repo, dispatcher)
	stream := NewStreamHandler(svc)

	r := gin.New()
	devices := r.Group("/api/v1/devices/:device_id")
	devices.POST("/samples", samples.HandleSamples)
	devices.GET("/window", samples.HandleGetWindow)
	devices.DELETE("/window", samples.HandleResetWindow)
	devices.GET("/shakes", shakes.HandleListShakes)
	devices.GET("/stream", stream.HandleStream)
	r.GET("/api/v1/shakes/:event_id", shakes.HandleGetShake)
	r.POST("/api/v1/shakes/:event_id/redeliver", shakes.HandleRedeliver)

	env.router = r
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// expectShakePipeline expects one detected shake to flow through storage,
// dispatch and recording.
func (e *testEnv) expectShakePipeline() {
	e.repo.EXPECT().SaveShakeEvent(gomock.Any(), gomock.Any()).Return(nil)
	e.repo.EXPECT().MarkDelivered(gomock.Any(), gomock.Any(), "webhook", time.Hour).Return(true, nil)
	e.listener.EXPECT().HearShake(gomock.Any(), gomock.Any()).Return(nil)
	e.recorder.EXPECT().RecordShakeEvents(gomock.Any(), gomock.Len(1)).Return(nil)
}

func TestHandleSamples_DetectsShake(t *testing.T) {
	env := newTestEnv(t)
	env.expectShakePipeline()
	env.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil)

	w := env.do(http.MethodPost, "/api/v1/devices/phone-1/samples", `{"samples":`+shakeSamples+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp SamplesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.ShakeDetected || len(resp.Events) != 1 {
		t.Fatalf("response = %+v, want one shake", resp)
	}
	if resp.ProcessedCount != 3 || resp.DeviceID != "phone-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Events[0].DeviceID != "phone-1" || resp.Events[0].SampleTimestamp != 600000000 {
		t.Errorf("unexpected event: %+v", resp.Events[0])
	}
}

func TestHandleSamples_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "malformed json", body: `{"samples":`, wantStatus: http.StatusBadRequest},
		{name: "missing samples", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "empty samples", body: `{"samples":[]}`, wantStatus: http.StatusBadRequest},
		{name: "missing axis", body: `{"samples":[{"timestamp_ns":1,"x":0,"y":0}]}`, wantStatus: http.StatusBadRequest},
		{name: "batch without timestamps", body: `{"samples":[{"x":0,"y":0,"z":1},{"x":0,"y":0,"z":2}]}`, wantStatus: http.StatusBadRequest},
		{
			name:       "too many samples",
			body:       `{"samples":[{"timestamp_ns":1,"x":0,"y":0,"z":1},{"timestamp_ns":2,"x":0,"y":0,"z":1},{"timestamp_ns":3,"x":0,"y":0,"z":1},{"timestamp_ns":4,"x":0,"y":0,"z":1},{"timestamp_ns":5,"x":0,"y":0,"z":1},{"timestamp_ns":6,"x":0,"y":0,"z":1}]}`,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(http.MethodPost, "/api/v1/devices/phone-1/samples", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error == "" {
				t.Errorf("expected an error response, got %s", w.Body.String())
			}
		})
	}
}

func TestHandleWindow(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(http.MethodGet, "/api/v1/devices/phone-1/window", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET unknown window status = %d, want 404", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/v1/devices/phone-1/window", ""); w.Code != http.StatusNotFound {
		t.Errorf("DELETE unknown window status = %d, want 404", w.Code)
	}

	env.recorder.EXPECT().RecordBatchStats(gomock.Any(), gomock.Any()).Return(nil)
	body := `{"samples":[{"timestamp_ns":100,"x":0.1,"y":0.1,"z":9.8},{"timestamp_ns":200,"x":0.1,"y":0.1,"z":9.8}]}`
	if w := env.do(http.MethodPost, "/api/v1/devices/phone-1/samples", body); w.Code != http.StatusOK {
		t.Fatalf("POST samples status = %d, body = %s", w.Code, w.Body.String())
	}

	w := env.do(http.MethodGet, "/api/v1/devices/phone-1/window", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET window status = %d", w.Code)
	}
	var got struct {
		Window shake.WindowSnapshot `json:"window"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := shake.WindowSnapshot{SampleCount: 2, AcceleratingCount: 1, OldestTimestamp: 100, NewestTimestamp: 200}
	if got.Window != want {
		t.Errorf("window = %+v, want %+v", got.Window, want)
	}

	if w := env.do(http.MethodDelete, "/api/v1/devices/phone-1/window", ""); w.Code != http.StatusNoContent {
		t.Errorf("DELETE window status = %d, want 204", w.Code)
	}
}

func TestHandleListShakes(t *testing.T) {
	env := newTestEnv(t)

	events := []*domain.ShakeEvent{{ID: "e2", DeviceID: "phone-1"}, {ID: "e1", DeviceID: "phone-1"}}
	env.repo.EXPECT().ListRecentShakeEvents(gomock.Any(), "phone-1", 2).Return(events, nil)
	env.repo.EXPECT().GetShakeCount(gomock.Any(), "phone-1").Return(7, nil)

	w := env.do(http.MethodGet, "/api/v1/devices/phone-1/shakes?limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalCount int                  `json:"total_count"`
		Events     []*domain.ShakeEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 7 || len(resp.Events) != 2 || resp.Events[0].ID != "e2" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if w := env.do(http.MethodGet, "/api/v1/devices/phone-1/shakes?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d, want 400", w.Code)
	}
}

func TestHandleListShakes_RepositoryError(t *testing.T) {
	env := newTestEnv(t)
	env.repo.EXPECT().ListRecentShakeEvents(gomock.Any(), "phone-1", 0).Return(nil, errors.New("redis down"))

	if w := env.do(http.MethodGet, "/api/v1/devices/phone-1/shakes", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHandleGetShake(t *testing.T) {
	env := newTestEnv(t)

	env.repo.EXPECT().GetShakeEvent(gomock.Any(), "e1").Return(&domain.ShakeEvent{ID: "e1", DeviceID: "phone-1"}, nil)
	env.repo.EXPECT().GetShakeEvent(gomock.Any(), "missing").Return(nil, domain.ErrEventNotFound)

	if w := env.do(http.MethodGet, "/api/v1/shakes/e1", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/v1/shakes/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleRedeliver(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(env *testEnv)
		wantStatus int
	}{
		{
			name: "delivered",
			setup: func(env *testEnv) {
				env.repo.EXPECT().GetShakeEvent(gomock.Any(), "e1").Return(&domain.ShakeEvent{ID: "e1"}, nil)
				env.repo.EXPECT().MarkDelivered(gomock.Any(), "e1", "webhook", time.Hour).Return(true, nil)
				env.listener.EXPECT().HearShake(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown event",
			setup: func(env *testEnv) {
				env.repo.EXPECT().GetShakeEvent(gomock.Any(), "e1").Return(nil, domain.ErrEventNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "listener failure",
			setup: func(env *testEnv) {
				env.repo.EXPECT().GetShakeEvent(gomock.Any(), "e1").Return(&domain.ShakeEvent{ID: "e1"}, nil)
				env.repo.EXPECT().MarkDelivered(gomock.Any(), "e1", "webhook", time.Hour).Return(true, nil)
				env.listener.EXPECT().HearShake(gomock.Any(), gomock.Any()).Return(errors.New("down"))
				env.repo.EXPECT().ClearDelivered(gomock.Any(), "e1", "webhook").Return(nil)
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)

			w := env.do(http.MethodPost, "/api/v1/shakes/e1/redeliver", "")
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: domain.ErrDeviceNotFound, want: http.StatusNotFound},
		{err: detection.ErrEmptyBatch, want: http.StatusBadRequest},
		{err: detection.ErrDeviceMismatch, want: http.StatusBadRequest},
		{err: domain.ErrInvalidReading, want: http.StatusBadRequest},
		{err: detection.ErrBatchTooLarge, want: http.StatusRequestEntityTooLarge},
		{err: context.DeadlineExceeded, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got, _ := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
