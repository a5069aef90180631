package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/logging"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/tracing"
)

const defaultTimeout = 10 * time.Second

// Client posts shake events as JSON to a fixed URL.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := newHTTPClient(url)
	httpClient.Timeout = timeout

	return &Client{
		url:        url,
		httpClient: httpClient,
	}
}

func (c *Client) Name() string {
	return "webhook"
}

func (c *Client) HearShake(ctx context.Context, event *domain.ShakeEvent) error {
	ctx, span := tracing.StartExternalAPISpan(ctx, "webhook", c.url)
	defer span.End()

	err := c.post(ctx, event)
	tracing.RecordResult(span, err)
	return err
}

func (c *Client) post(ctx context.Context, event *domain.ShakeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal shake event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", event.ID)
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send shake webhook",
			slog.String("event_id", event.ID),
			slog.String("url", c.url),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.ErrorContext(ctx, "unexpected status code from shake webhook",
			slog.String("event_id", event.ID),
			slog.String("url", c.url),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	slog.DebugContext(ctx, "shake webhook delivered",
		slog.String("event_id", event.ID),
		slog.String("device_id", event.DeviceID),
	)

	return nil
}
