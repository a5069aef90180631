package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-shake-detection/internal/shake"
)

const (
	detectionConfigFileEnv = "SHAKE_CONFIG_FILE"
	magnitudeThresholdEnv  = "SHAKE_MAGNITUDE_THRESHOLD"
	directionThresholdEnv  = "SHAKE_DIRECTION_THRESHOLD"
	maxWindowMillisEnv     = "SHAKE_MAX_WINDOW_MS"
	minQueueSizeEnv        = "SHAKE_MIN_QUEUE_SIZE"
	detectorIdleSecondsEnv = "SHAKE_DETECTOR_IDLE_SECONDS"
	maxBatchSizeEnv        = "SHAKE_MAX_BATCH_SIZE"

	defaultDetectorIdleTTL = 10 * time.Minute
	defaultMaxBatchSize    = 1000
)

type DetectionConfig struct {
	MagnitudeThreshold float64
	DirectionThreshold float64
	MaxWindow          time.Duration
	MinQueueSize       int

	// DetectorIdleTTL is how long a device may stay silent before its
	// detector state is dropped.
	DetectorIdleTTL time.Duration
	MaxBatchSize    int
}

// detectionFile mirrors the optional YAML file pointed to by SHAKE_CONFIG_FILE.
type detectionFile struct {
	Detection struct {
		MagnitudeThreshold  float64 `yaml:"magnitude_threshold"`
		DirectionThreshold  float64 `yaml:"direction_threshold"`
		MaxWindowMillis     int     `yaml:"max_window_ms"`
		MinQueueSize        int     `yaml:"min_queue_size"`
		DetectorIdleSeconds int     `yaml:"detector_idle_seconds"`
		MaxBatchSize        int     `yaml:"max_batch_size"`
	} `yaml:"detection"`
}

// LoadDetectionConfig starts from the algorithm defaults, applies the YAML
// file when SHAKE_CONFIG_FILE is set, then applies environment overrides.
func LoadDetectionConfig() (*DetectionConfig, error) {
	defaults := shake.DefaultThresholds()

	cfg := &DetectionConfig{
		MagnitudeThreshold: defaults.MagnitudeThreshold,
		DirectionThreshold: defaults.DirectionThreshold,
		MaxWindow:          time.Duration(defaults.MaxWindowSize),
		MinQueueSize:       defaults.MinQueueSize,
		DetectorIdleTTL:    defaultDetectorIdleTTL,
		MaxBatchSize:       defaultMaxBatchSize,
	}

	if path := os.Getenv(detectionConfigFileEnv); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv(magnitudeThresholdEnv); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			cfg.MagnitudeThreshold = parsed
		}
	}

	if v := os.Getenv(directionThresholdEnv); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			cfg.DirectionThreshold = parsed
		}
	}

	if v := os.Getenv(maxWindowMillisEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.MaxWindow = time.Duration(parsed) * time.Millisecond
		}
	}

	if v := os.Getenv(minQueueSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.MinQueueSize = parsed
		}
	}

	if v := os.Getenv(detectorIdleSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.DetectorIdleTTL = time.Duration(parsed) * time.Second
		}
	}

	if v := os.Getenv(maxBatchSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.MaxBatchSize = parsed
		}
	}

	return cfg, nil
}

func (c *DetectionConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrInvalidDetectionConfig, path, err)
	}

	var file detectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrInvalidDetectionConfig, path, err)
	}

	d := file.Detection
	if d.MagnitudeThreshold > 0 {
		c.MagnitudeThreshold = d.MagnitudeThreshold
	}
	if d.DirectionThreshold > 0 {
		c.DirectionThreshold = d.DirectionThreshold
	}
	if d.MaxWindowMillis > 0 {
		c.MaxWindow = time.Duration(d.MaxWindowMillis) * time.Millisecond
	}
	if d.MinQueueSize > 0 {
		c.MinQueueSize = d.MinQueueSize
	}
	if d.DetectorIdleSeconds > 0 {
		c.DetectorIdleTTL = time.Duration(d.DetectorIdleSeconds) * time.Second
	}
	if d.MaxBatchSize > 0 {
		c.MaxBatchSize = d.MaxBatchSize
	}

	return nil
}

// Thresholds converts the configuration for the detector. The minimum window
// is always half the maximum window.
func (c *DetectionConfig) Thresholds() shake.Thresholds {
	maxWindow := c.MaxWindow.Nanoseconds()
	return shake.Thresholds{
		MagnitudeThreshold: c.MagnitudeThreshold,
		DirectionThreshold: c.DirectionThreshold,
		MaxWindowSize:      maxWindow,
		MinWindowSize:      maxWindow / 2,
		MinQueueSize:       c.MinQueueSize,
	}
}

func (c *DetectionConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: missing", ErrInvalidDetectionConfig)
	}
	if c.MaxWindow < time.Millisecond {
		return fmt.Errorf("%w: max window must be at least 1ms", ErrInvalidDetectionConfig)
	}
	if c.MinQueueSize < 1 {
		return fmt.Errorf("%w: min queue size must be positive", ErrInvalidDetectionConfig)
	}
	return nil
}
