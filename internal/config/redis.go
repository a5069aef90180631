package config

import (
	"os"
	"strconv"
	"time"
)

const (
	redisAddrEnv     = "REDIS_ADDR"
	redisPasswordEnv = "REDIS_PASSWORD"
	redisDBEnv       = "REDIS_DB"
	redisTLSEnv      = "REDIS_TLS"
	shakeEventTTLEnv = "SHAKE_EVENT_TTL_SECONDS"

	defaultRedisAddr     = "localhost:6379"
	defaultRedisDB       = 0
	defaultShakeEventTTL = 7 * 24 * time.Hour
)

// RedisConfig holds the connection settings for the shake event store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool

	// EventTTL bounds how long stored shake events and per-device lists live.
	EventTTL time.Duration
}

func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{
		Addr:     os.Getenv(redisAddrEnv),
		Password: os.Getenv(redisPasswordEnv),
		DB:       defaultRedisDB,
		TLS:      os.Getenv(redisTLSEnv) == "true",
		EventTTL: parseSeconds(os.Getenv(shakeEventTTLEnv), defaultShakeEventTTL),
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultRedisAddr
	}

	if raw := os.Getenv(redisDBEnv); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return nil, ErrInvalidRedisDB
		}
		cfg.DB = db
	}

	return cfg, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
