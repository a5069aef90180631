package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/notify"
)

type ShakeHandler struct {
	repo       domain.ShakeEventRepository
	dispatcher *notify.Dispatcher
}

func NewShakeHandler(repo domain.ShakeEventRepository, dispatcher *notify.Dispatcher) *ShakeHandler {
	return &ShakeHandler{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// HandleListShakes returns the newest shakes of a device and its total count.
func (h *ShakeHandler) HandleListShakes(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("device_id")

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "validation_error", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := h.repo.ListRecentShakeEvents(ctx, deviceID, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list shake events",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to list shake events")
		return
	}

	count, err := h.repo.GetShakeCount(ctx, deviceID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get shake count",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to get shake count")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device_id":   deviceID,
		"total_count": count,
		"events":      events,
	})
}

func (h *ShakeHandler) HandleGetShake(c *gin.Context) {
	event, err := h.repo.GetShakeEvent(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		status, errType := statusForError(err)
		respondError(c, status, errType, err.Error())
		return
	}

	c.JSON(http.StatusOK, event)
}

// HandleRedeliver dispatches a stored shake again to listeners that have not
// received it.
func (h *ShakeHandler) HandleRedeliver(c *gin.Context) {
	ctx := c.Request.Context()
	eventID := c.Param("event_id")

	if h.dispatcher == nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", notify.ErrRedeliveryUnavailable.Error())
		return
	}

	event, err := h.dispatcher.Redeliver(ctx, eventID)
	switch {
	case errors.Is(err, notify.ErrRedeliveryUnavailable):
		respondError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
		return
	case event == nil && err != nil:
		status, errType := statusForError(err)
		respondError(c, status, errType, err.Error())
		return
	case err != nil:
		slog.WarnContext(ctx, "redelivery incomplete",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, "delivery_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":     event,
		"listeners": h.dispatcher.Listeners(),
	})
}
