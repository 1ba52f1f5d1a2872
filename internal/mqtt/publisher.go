package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"tankmon/internal/config"
)

// connectRetries bounds the publisher's initial connect attempts; the
// simulator usually comes up before the broker does.
const connectRetries = 5

// Publisher sends telemetry frames on behalf of one tank transmitter.
type Publisher struct {
	client    mqtt.Client
	cfg       config.Config
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPublisher(cfg config.Config, logger *slog.Logger) (*Publisher, error) {
	p := &Publisher{
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	// The monitor and the simulator share the default client id; a random
	// suffix keeps the broker from dropping one session for the other.
	opts.SetClientID(fmt.Sprintf("%s-pub-%s", cfg.MQTTClientID, uuid.NewString()))

	// Session settings
	opts.SetCleanSession(true)

	// Single-shot connect attempts; ConnectWithBackoff owns the retrying.
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetMaxReconnectInterval(60 * time.Second)

	// Keepalive / timeouts
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// Callbacks keep internal state accurate
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		p.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	p.client = mqtt.NewClient(opts)
	return p, nil
}

// Connect makes one connection attempt and waits for it, respecting ctx and
// Disconnect().
func (p *Publisher) Connect(ctx context.Context) error {
	// Fail fast if already stopped.
	select {
	case <-p.stopCh:
		return fmt.Errorf("publisher stopped")
	default:
	}

	// Fast path.
	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	// Wait in a ctx/stop-aware loop.
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			// OnConnectHandler sets connected=true.
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return fmt.Errorf("publisher stopped")
		default:
		}
	}
}

// ConnectWithBackoff retries Connect with exponential backoff until it
// succeeds or the attempt limit is reached. Cancelling ctx stops the retries.
func (p *Publisher) ConnectWithBackoff(ctx context.Context) error {
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectRetries),
		ctx,
	)
	err := backoff.Retry(func() error {
		if err := p.Connect(ctx); err != nil {
			p.logger.Warn("mqtt connect attempt failed", "error", err)
			return err
		}
		return nil
	}, bo)
	if err != nil {
		return fmt.Errorf("mqtt connect after retries: %w", err)
	}
	return nil
}

// PublishFrame publishes one raw frame token on the tank's frame topic.
func (p *Publisher) PublishFrame(tankID, token string) error {
	if !p.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	topic := FrameTopic(tankID)

	t := p.client.Publish(topic, 1, false, []byte(token))
	if !t.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if t.Error() != nil {
		p.logger.Error("failed to publish frame", "topic", topic, "error", t.Error())
		return fmt.Errorf("publish frame: %w", t.Error())
	}

	p.logger.Debug("published frame", "topic", topic, "token", token)
	return nil
}

// IsConnected returns whether the client is connected.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Disconnect stops the publisher and closes the MQTT connection.
// Idempotent and safe to call multiple times.
func (p *Publisher) Disconnect() {
	// Signal shutdown once (unblocks any Connect loops).
	p.stopOnce.Do(func() { close(p.stopCh) })

	// Disconnect without holding p.mu to avoid lock contention/deadlocks.
	if p.client != nil {
		p.client.Disconnect(250)
	}

	// Update our internal state.
	p.setConnected(false)
	p.logger.Info("mqtt publisher disconnected")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}
