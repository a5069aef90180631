package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/sensorsource"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/detection"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

// statusForError maps service errors to an HTTP status and error type.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDeviceNotFound), errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, detection.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "validation_error"
	case errors.Is(err, domain.ErrInvalidReading),
		errors.Is(err, detection.ErrEmptyBatch),
		errors.Is(err, detection.ErrDeviceMismatch),
		errors.Is(err, sensorsource.ErrInvalidPayload):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "processing_error"
	}
}
