package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidDetectionConfig = errors.New("invalid detection configuration")
	ErrInvalidMQTTTopic       = errors.New("SHAKE_MQTT_TOPIC must contain a single-level wildcard for the device id")
)
