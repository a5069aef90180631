package sensorsource

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/eclipse/paho.golang/paho"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-shake-detection/internal/domain"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/logging"
	"github.com/KasumiMercury/primind-shake-detection/internal/observability/metrics"
)

const (
	sourceName = "mqtt"

	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
	disconnectTimeout = 5 * time.Second
)

type MQTTConfig struct {
	BrokerURL        string
	Topic            string
	ClientID         string
	Username         string
	Password         string
	QoS              byte
	KeepAliveSeconds uint16
}

// MQTTSource subscribes to a topic filter with one "+" level naming the
// device and hands every decoded sample to the reading handler. It
// reconnects with backoff until stopped.
type MQTTSource struct {
	cfg     MQTTConfig
	metrics *metrics.ShakeMetrics

	mu        sync.Mutex
	client    *paho.Client
	cancel    context.CancelFunc
	done      chan struct{}
	started   bool
	connected bool
}

var _ domain.SampleSource = (*MQTTSource)(nil)

func NewMQTTSource(cfg MQTTConfig, m *metrics.ShakeMetrics) *MQTTSource {
	if cfg.ClientID == "" {
		cfg.ClientID = "shake-detection-" + uuid.NewString()[:8]
	}
	if cfg.KeepAliveSeconds == 0 {
		cfg.KeepAliveSeconds = 30
	}
	return &MQTTSource{
		cfg:     cfg,
		metrics: m,
	}
}

// Start connects and subscribes once before returning so that configuration
// errors surface to the caller. Later connection losses are retried in the
// background.
func (s *MQTTSource) Start(ctx context.Context, handler domain.ReadingHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	ctx = logging.WithModule(ctx, logging.Module("mqtt"))
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	client, lost, err := s.connect(runCtx, handler)
	if err != nil {
		cancel()
		return err
	}

	s.client = client
	s.started = true
	s.connected = true
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx, handler, lost)

	return nil
}

func (s *MQTTSource) run(ctx context.Context, handler domain.ReadingHandler, lost <-chan error) {
	defer close(s.done)

	delay := minReconnectDelay
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-lost:
			s.setConnected(false)
			slog.WarnContext(ctx, "mqtt connection lost",
				slog.String("event", "mqtt.connection.lost"),
				slog.String("error", errString(err)),
			)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			client, next, err := s.connect(ctx, handler)
			if err == nil {
				if !s.swapClient(ctx, client) {
					return
				}
				lost = next
				delay = minReconnectDelay
				break
			}

			slog.WarnContext(ctx, "mqtt reconnect failed",
				slog.String("event", "mqtt.reconnect.fail"),
				slog.String("error", err.Error()),
				slog.Duration("retry_in", delay),
			)
			delay = min(delay*2, maxReconnectDelay)
		}
	}
}

// swapClient installs a reconnected client. It reports false, and drops the
// client, when the source was stopped meanwhile.
func (s *MQTTSource) swapClient(ctx context.Context, client *paho.Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		_ = client.Disconnect(&paho.Disconnect{ReasonCode: 0})
		return false
	}
	s.client = client
	s.connected = true
	return true
}

func (s *MQTTSource) setConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	s.mu.Unlock()
}

// Check reports ErrNotConnected while the source is stopped or
// reconnecting.
func (s *MQTTSource) Check(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || !s.connected {
		return ErrNotConnected
	}
	return nil
}

func (s *MQTTSource) connect(ctx context.Context, handler domain.ReadingHandler) (*paho.Client, <-chan error, error) {
	conn, err := dial(ctx, s.cfg.BrokerURL)
	if err != nil {
		return nil, nil, err
	}

	lost := make(chan error, 1)
	signalLost := func(err error) {
		select {
		case lost <- err:
		default:
		}
	}

	client := paho.NewClient(paho.ClientConfig{
		ClientID: s.cfg.ClientID,
		Conn:     conn,
		OnPublishReceived: []func(paho.PublishReceived) (bool, error){
			func(pr paho.PublishReceived) (bool, error) {
				s.handleMessage(ctx, handler, pr.Packet.Topic, pr.Packet.Payload)
				return true, nil
			},
		},
		OnClientError: signalLost,
		OnServerDisconnect: func(d *paho.Disconnect) {
			signalLost(fmt.Errorf("server disconnect: reason code %d", d.ReasonCode))
		},
	})

	connect := &paho.Connect{
		ClientID:   s.cfg.ClientID,
		KeepAlive:  s.cfg.KeepAliveSeconds,
		CleanStart: true,
	}
	if s.cfg.Username != "" {
		connect.UsernameFlag = true
		connect.Username = s.cfg.Username
	}
	if s.cfg.Password != "" {
		connect.PasswordFlag = true
		connect.Password = []byte(s.cfg.Password)
	}

	if _, err := client.Connect(ctx, connect); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	if _, err := client.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{
			{Topic: s.cfg.Topic, QoS: s.cfg.QoS},
		},
	}); err != nil {
		_ = client.Disconnect(&paho.Disconnect{ReasonCode: 0})
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", s.cfg.Topic, err)
	}

	slog.InfoContext(ctx, "mqtt source subscribed",
		slog.String("event", "mqtt.subscribe"),
		slog.String("broker", s.cfg.BrokerURL),
		slog.String("topic", s.cfg.Topic),
		slog.Int("qos", int(s.cfg.QoS)),
	)

	return client, lost, nil
}

func (s *MQTTSource) handleMessage(ctx context.Context, handler domain.ReadingHandler, topic string, payload []byte) {
	deviceID, err := deviceIDFromTopic(s.cfg.Topic, topic)
	if err == nil {
		var readings []domain.Reading
		readings, err = DecodeReadings(deviceID, payload, time.Now())
		if err == nil {
			for _, r := range readings {
				handler(ctx, r)
			}
			return
		}
	}

	s.metrics.RecordSourceDecodeError(ctx, sourceName)
	slog.WarnContext(ctx, "dropping undecodable mqtt message",
		slog.String("event", "mqtt.message.drop"),
		slog.String("topic", topic),
		slog.String("error", err.Error()),
	)
}

// Stop disconnects and waits for the reconnect loop to exit.
func (s *MQTTSource) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.connected = false
	s.cancel()
	done, client := s.done, s.client
	s.client = nil
	s.mu.Unlock()

	var err error
	if client != nil {
		err = client.Disconnect(&paho.Disconnect{ReasonCode: 0})
	}

	select {
	case <-done:
	case <-time.After(disconnectTimeout):
		err = errors.Join(err, errors.New("timed out waiting for mqtt source to stop"))
	}

	return err
}

func dial(ctx context.Context, brokerURL string) (net.Conn, error) {
	u, err := url.Parse(brokerURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBrokerURL, brokerURL)
	}

	host := u.Host
	switch u.Scheme {
	case "mqtt", "tcp":
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "1883")
		}
		var d net.Dialer
		return d.DialContext(ctx, "tcp", host)
	case "mqtts", "ssl", "tls":
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "8883")
		}
		d := tls.Dialer{Config: &tls.Config{ServerName: u.Hostname(), MinVersion: tls.VersionTLS12}}
		return d.DialContext(ctx, "tcp", host)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBrokerURL, u.Scheme)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
