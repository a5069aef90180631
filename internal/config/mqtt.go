package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	mqttBrokerURLEnv = "SHAKE_MQTT_BROKER_URL"
	mqttTopicEnv     = "SHAKE_MQTT_TOPIC"
	mqttClientIDEnv  = "SHAKE_MQTT_CLIENT_ID"
	mqttUsernameEnv  = "SHAKE_MQTT_USERNAME"
	mqttPasswordEnv  = "SHAKE_MQTT_PASSWORD"
	mqttQoSEnv       = "SHAKE_MQTT_QOS"
	mqttKeepAliveEnv = "SHAKE_MQTT_KEEPALIVE_SECONDS"

	defaultMQTTTopic     = "sensors/+/accel"
	defaultMQTTQoS       = 1
	defaultMQTTKeepAlive = 30
)

// MQTTConfig configures the MQTT sample source. An empty BrokerURL disables it.
type MQTTConfig struct {
	BrokerURL        string
	Topic            string
	ClientID         string
	Username         string
	Password         string
	QoS              byte
	KeepAliveSeconds uint16
}

func LoadMQTTConfig() *MQTTConfig {
	topic := os.Getenv(mqttTopicEnv)
	if topic == "" {
		topic = defaultMQTTTopic
	}

	qos := byte(defaultMQTTQoS)
	if v := os.Getenv(mqttQoSEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 2 {
			qos = byte(parsed)
		}
	}

	keepAlive := uint16(defaultMQTTKeepAlive)
	if v := os.Getenv(mqttKeepAliveEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 65535 {
			keepAlive = uint16(parsed)
		}
	}

	return &MQTTConfig{
		BrokerURL:        os.Getenv(mqttBrokerURLEnv),
		Topic:            topic,
		ClientID:         os.Getenv(mqttClientIDEnv),
		Username:         os.Getenv(mqttUsernameEnv),
		Password:         os.Getenv(mqttPasswordEnv),
		QoS:              qos,
		KeepAliveSeconds: keepAlive,
	}
}

func (c *MQTTConfig) Enabled() bool {
	return c != nil && c.BrokerURL != ""
}

// Validate requires exactly one "+" level in the topic filter; that level
// carries the device id.
func (c *MQTTConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}

	wildcards := 0
	for _, level := range strings.Split(c.Topic, "/") {
		switch level {
		case "+":
			wildcards++
		case "#":
			return ErrInvalidMQTTTopic
		}
	}
	if wildcards != 1 {
		return ErrInvalidMQTTTopic
	}
	return nil
}
