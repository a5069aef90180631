package stub

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/taskqueue"
)

const defaultSampleLimit = 100

type Handler struct {
	storage *RunStorage
}

func NewHandler(storage *RunStorage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) HandleReset(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	h.storage.Reset(runID)

	slog.Info("reset data", slog.String("run_id", runID))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"run_id": runID,
	})
}

// POST /webhook?run_id=...
// Receives shake events posted by the webhook listener.
func (h *Handler) HandleWebhook(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	var event domain.ShakeEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventID := c.GetHeader("Idempotency-Key")
	if eventID == "" {
		eventID = event.ID
	}

	duplicate := h.storage.RecordDelivery(runID, Delivery{
		Kind:       DeliveryWebhook,
		EventID:    eventID,
		DeviceID:   event.DeviceID,
		ReceivedAt: time.Now(),
	})

	slog.Debug("webhook received",
		slog.String("run_id", runID),
		slog.String("event_id", eventID),
		slog.Bool("duplicate", duplicate),
	)

	c.Status(http.StatusNoContent)
}

// POST /tasks/:queue?run_id=...
// Mimics the task queue API. A task name seen before is rejected with 409
// like a real queue would.
func (h *Handler) HandleRegisterTask(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	var req taskqueue.PrimindTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task body is not base64: " + err.Error()})
		return
	}

	var task taskqueue.NotificationTask
	if err := json.Unmarshal(body, &task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task body: " + err.Error()})
		return
	}

	name := req.Task.Name
	if name == "" {
		name = task.TaskID
	}

	duplicate := h.storage.RecordDelivery(runID, Delivery{
		Kind:       DeliveryTask,
		EventID:    name,
		DeviceID:   task.DeviceID,
		ReceivedAt: time.Now(),
	})
	if duplicate {
		c.JSON(http.StatusConflict, gin.H{"error": "task already exists: " + name})
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	c.JSON(http.StatusOK, taskqueue.PrimindTaskResponse{
		Name:         name,
		ScheduleTime: now,
		CreateTime:   now,
	})
}

// GET /api/v1/deliveries?run_id=...
func (h *Handler) HandleGetDeliveries(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")
	c.JSON(http.StatusOK, h.storage.Summary(runID))
}

// POST /api/v1/seed?run_id=...
func (h *Handler) HandleSeed(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")

	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totalCount := 0
	for _, d := range req.Devices {
		if d.DeviceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "device_id is required"})
			return
		}

		pattern := d.Pattern
		switch pattern {
		case "":
			pattern = PatternRest
		case PatternRest, PatternShake, PatternBurst:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pattern: " + d.Pattern})
			return
		}

		h.storage.SetScenario(runID, d.DeviceID, Scenario{
			Pattern:  pattern,
			Count:    d.Count,
			Interval: time.Duration(d.IntervalMs) * time.Millisecond,
		})
		totalCount += d.Count
	}

	slog.Info("seeded data",
		slog.String("run_id", runID),
		slog.Int("device_count", len(req.Devices)),
		slog.Int("total_sample_count", totalCount),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":       "seeded",
		"run_id":       runID,
		"device_count": len(req.Devices),
		"total_count":  totalCount,
	})
}

// GET /api/v1/devices/:device_id/samples?run_id=...&offset=...&limit=...
// Returns a page of the seeded scenario in the body format of the samples API.
func (h *Handler) HandleGetSamples(c *gin.Context) {
	runID := c.DefaultQuery("run_id", "default")
	deviceID := c.Param("device_id")

	sc, ok := h.storage.Scenario(runID, deviceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scenario for device " + deviceID})
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSampleLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	c.JSON(http.StatusOK, SamplesResponse{
		Samples: GenerateSamples(sc, offset, limit),
		Total:   sc.Count,
	})
}
