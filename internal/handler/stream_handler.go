package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/infra/sensorsource"
	"github.com/KasumiMercury/primind-shake-detection/internal/service/detection"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamMaxMessage = 64 * 1024
)

// StreamFrame is written back to the client for every detected shake and for
// frames that could not be processed.
type StreamFrame struct {
	Shake   bool               `json:"shake"`
	Event   *domain.ShakeEvent `json:"event,omitempty"`
	Error   string             `json:"error,omitempty"`
	Message string             `json:"message,omitempty"`
}

type StreamHandler struct {
	detectionService *detection.Service
	upgrader         websocket.Upgrader
}

func NewStreamHandler(detectionService *detection.Service) *StreamHandler {
	return &StreamHandler{
		detectionService: detectionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Sensors are not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleStream upgrades to a WebSocket. Each text frame carries one sample
// or an array of samples for the device in the path.
func (h *StreamHandler) HandleStream(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("device_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade failed",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
		return
	}
	defer conn.Close()

	slog.InfoContext(ctx, "sample stream opened",
		slog.String("device_id", deviceID),
		slog.String("remote_addr", conn.RemoteAddr().String()),
	)

	conn.SetReadLimit(streamMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done)

	received := 0
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.WarnContext(ctx, "sample stream read error",
					slog.String("device_id", deviceID),
					slog.String("error", err.Error()),
				)
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))

		frames := h.handleFrame(c, deviceID, message)
		for _, frame := range frames {
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(frame); err != nil {
				slog.WarnContext(ctx, "sample stream write error",
					slog.String("device_id", deviceID),
					slog.String("error", err.Error()),
				)
				return
			}
		}
		received++
	}

	slog.InfoContext(ctx, "sample stream closed",
		slog.String("device_id", deviceID),
		slog.Int("frames", received),
	)
}

func (h *StreamHandler) handleFrame(c *gin.Context, deviceID string, message []byte) []StreamFrame {
	ctx := c.Request.Context()

	readings, err := sensorsource.DecodeReadings(deviceID, message, time.Now())
	if err != nil {
		return []StreamFrame{{Error: "validation_error", Message: err.Error()}}
	}

	result, err := h.detectionService.Process(ctx, detection.SourceStream, deviceID, readings)
	if err != nil {
		_, errType := statusForError(err)
		return []StreamFrame{{Error: errType, Message: err.Error()}}
	}

	frames := make([]StreamFrame, 0, len(result.Events))
	for _, event := range result.Events {
		frames = append(frames, StreamFrame{Shake: true, Event: event})
	}
	return frames
}

// keepAlive pings until done is closed. WriteControl may run concurrently
// with the reader's writes.
func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait))
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				return
			}
		}
	}
}
