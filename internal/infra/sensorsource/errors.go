package sensorsource

import "errors"

var (
	ErrAlreadyStarted   = errors.New("sample source already started")
	ErrInvalidBrokerURL = errors.New("invalid MQTT broker URL")
	ErrInvalidPayload   = errors.New("invalid sample payload")
	ErrTopicMismatch    = errors.New("topic does not match subscription")
	ErrNotConnected     = errors.New("MQTT source not connected")
)
