package stub

import "time"

const (
	DeliveryWebhook = "webhook"
	DeliveryTask    = "task"
)

const (
	PatternRest  = "rest"
	PatternShake = "shake"
	PatternBurst = "burst"
)

// Delivery is one shake notification received from the service.
type Delivery struct {
	Kind       string    `json:"kind"`
	EventID    string    `json:"event_id"`
	DeviceID   string    `json:"device_id"`
	Duplicate  bool      `json:"duplicate"`
	ReceivedAt time.Time `json:"received_at"`
}

type DeliverySummary struct {
	RunID          string         `json:"run_id"`
	WebhookCount   int            `json:"webhook_count"`
	TaskCount      int            `json:"task_count"`
	DuplicateCount int            `json:"duplicate_count"`
	Devices        map[string]int `json:"devices"`
}

type SampleJSON struct {
	Timestamp int64   `json:"timestamp_ns"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

type SamplesResponse struct {
	Samples []SampleJSON `json:"samples"`
	Total   int          `json:"total"`
}

type SeedRequest struct {
	Devices []SeedDevice `json:"devices"`
}

type SeedDevice struct {
	DeviceID   string `json:"device_id"`
	Pattern    string `json:"pattern"`
	Count      int    `json:"count"`
	IntervalMs int    `json:"interval_ms"`
}
