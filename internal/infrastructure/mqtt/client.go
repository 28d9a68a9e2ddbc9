package mqtt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/config"
)

// Client is the MQTT transport of a Ditto device: one paho connection to a
// Hono MQTT adapter.
//
// Subscriptions are remembered and re-established after paho reconnects,
// since the session is clean. All methods are safe for concurrent use.
type Client struct {
	client   pahomqtt.Client
	cfg      config.MQTTConfig
	clientID string

	subscriptions map[string]subscription
	subMu         sync.RWMutex

	connected atomic.Bool
	hooks     hooks
}

// hooks holds the optional connection callbacks and error logger.
type hooks struct {
	mu           sync.RWMutex
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger
}

// Logger receives transport errors. *logging.Logger and *slog.Logger
// satisfy it.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type subscription struct {
	topic   string
	qos     byte
	handler MessageHandler
}

// MessageHandler receives one inbound message.
//
// paho calls handlers from its own goroutines. A returned error is logged;
// the message is acknowledged regardless.
type MessageHandler func(topic string, payload []byte) error

// Connect dials the broker named in cfg and waits for the first CONNACK.
//
// An empty cfg.Broker.ClientID is replaced by a random UUID, so several
// agents can share one configuration. After the initial connect, paho
// reconnects on its own with the configured backoff.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	clientID := cfg.Broker.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	opts, err := buildClientOptions(cfg, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{
		cfg:           cfg,
		clientID:      clientID,
		subscriptions: make(map[string]subscription),
	}

	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.handleConnect() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.handleDisconnect(err) })
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		if logger := c.getLogger(); logger != nil {
			logger.Warn("MQTT reconnecting", "client_id", clientID)
		}
	})

	c.client = pahomqtt.NewClient(opts)
	if err := waitConnect(c.client.Connect()); err != nil {
		return nil, err
	}

	// The OnConnect handler runs asynchronously; do not wait for it.
	c.connected.Store(true)
	return c, nil
}

func waitConnect(token pahomqtt.Token) error {
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: no CONNACK within %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return nil
}

// ClientID returns the MQTT client identifier in use, generated or configured.
func (c *Client) ClientID() string {
	return c.clientID
}

func (c *Client) handleConnect() {
	c.connected.Store(true)
	c.restoreSubscriptions()

	c.hooks.mu.RLock()
	fn := c.hooks.onConnect
	c.hooks.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) handleDisconnect(err error) {
	c.connected.Store(false)

	c.hooks.mu.RLock()
	fn := c.hooks.onDisconnect
	c.hooks.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// restoreSubscriptions re-subscribes every tracked filter. Failures are
// logged and retried on the next reconnect.
func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	subs := make([]subscription, 0, len(c.subscriptions))
	for _, sub := range c.subscriptions {
		subs = append(subs, sub)
	}
	c.subMu.RUnlock()

	for _, sub := range subs {
		err := waitToken(c.client.Subscribe(sub.topic, sub.qos, c.wrapHandler(sub.handler)), ErrSubscribeFailed)
		if err == nil {
			continue
		}
		if logger := c.getLogger(); logger != nil {
			logger.Error("MQTT resubscribe failed", "topic", sub.topic, "error", err)
		}
	}
}

// Close disconnects from the broker after letting in-flight work settle.
// Closing a client that never connected is a no-op.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	c.connected.Store(false)
	return nil
}

// HealthCheck reports ErrNotConnected while the broker connection is down.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports whether both the last connection event and paho
// itself consider the client connected.
func (c *Client) IsConnected() bool {
	return c.connected.Load() && c.client != nil && c.client.IsConnected()
}

// SetOnConnect registers fn for the initial connect and every reconnect.
// fn runs on a paho goroutine and must not block.
func (c *Client) SetOnConnect(fn func()) {
	c.hooks.mu.Lock()
	c.hooks.onConnect = fn
	c.hooks.mu.Unlock()
}

// SetOnDisconnect registers fn for a lost connection.
func (c *Client) SetOnDisconnect(fn func(err error)) {
	c.hooks.mu.Lock()
	c.hooks.onDisconnect = fn
	c.hooks.mu.Unlock()
}

// SetLogger sets the logger for handler failures and reconnects.
// Without one they are dropped.
func (c *Client) SetLogger(logger Logger) {
	c.hooks.mu.Lock()
	c.hooks.logger = logger
	c.hooks.mu.Unlock()
}

func (c *Client) getLogger() Logger {
	c.hooks.mu.RLock()
	defer c.hooks.mu.RUnlock()
	return c.hooks.logger
}

// wrapHandler adapts handler to paho and contains its panics.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if logger := c.getLogger(); logger != nil {
				logger.Error("MQTT handler panic recovered", "topic", msg.Topic(), "panic", r)
			}
		}()

		err := handler(msg.Topic(), msg.Payload())
		if err == nil {
			return
		}
		if logger := c.getLogger(); logger != nil {
			logger.Warn("MQTT handler returned error", "topic", msg.Topic(), "error", err)
		}
	}
}
