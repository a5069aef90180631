package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/sensorsource"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/detection"
	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

type SampleHandler struct {
	detectionService *detection.Service
}

func NewSampleHandler(detectionService *detection.Service) *SampleHandler {
	return &SampleHandler{
		detectionService: detectionService,
	}
}

type samplesRequest struct {
	Samples json.RawMessage `json:"samples"`
}

type SamplesResponse struct {
	DeviceID       string               `json:"device_id"`
	ProcessedCount int                  `json:"processed_count"`
	NonFiniteCount int                  `json:"nonfinite_count"`
	ShakeDetected  bool                 `json:"shake_detected"`
	Events         []*domain.ShakeEvent `json:"events"`
	Window         shake.WindowSnapshot `json:"window"`
}

// HandleSamples feeds a batch of samples to the device's detector.
func (h *SampleHandler) HandleSamples(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("device_id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "read_error", "failed to read request body")
		return
	}

	var req samplesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if len(req.Samples) == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", detection.ErrEmptyBatch.Error())
		return
	}

	readings, err := sensorsource.DecodeReadings(deviceID, req.Samples, time.Now())
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.detectionService.Process(ctx, detection.SourceHTTP, deviceID, readings)
	if err != nil {
		status, errType := statusForError(err)
		slog.WarnContext(ctx, "failed to process samples",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
		respondError(c, status, errType, err.Error())
		return
	}

	c.JSON(http.StatusOK, SamplesResponse{
		DeviceID:       result.DeviceID,
		ProcessedCount: result.ProcessedCount,
		NonFiniteCount: result.NonFiniteCount,
		ShakeDetected:  result.ShakeDetected(),
		Events:         result.Events,
		Window:         result.Window,
	})
}

func (h *SampleHandler) HandleGetWindow(c *gin.Context) {
	deviceID := c.Param("device_id")

	window, err := h.detectionService.Window(c.Request.Context(), deviceID)
	if err != nil {
		status, errType := statusForError(err)
		respondError(c, status, errType, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device_id": deviceID,
		"window":    window,
	})
}

func (h *SampleHandler) HandleResetWindow(c *gin.Context) {
	deviceID := c.Param("device_id")

	if err := h.detectionService.Reset(c.Request.Context(), deviceID); err != nil {
		status, errType := statusForError(err)
		respondError(c, status, errType, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
