package config

import "errors"

func ValidateForRun(cfg *Config) error {
	return errors.Join(
		cfg.Redis.Validate(),
		cfg.Detection.Validate(),
		cfg.MQTT.Validate(),
	)
}
