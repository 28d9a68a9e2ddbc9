package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

const (
	// DefaultNotifyTimeout bounds the wait for a lifecycle callback.
	DefaultNotifyTimeout = 60 * time.Second

	// DefaultCommandQoS is the QoS of the command request subscription.
	DefaultCommandQoS byte = 1

	// publishQoS applies to replies, events and telemetry.
	publishQoS byte = 1
)

// LifecycleFunc is called after Start and Stop, and on NotifyConnected and
// NotifyDisconnected. It runs on its own goroutine.
type LifecycleFunc func(c *Client)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured log sink.
func WithLogger(logger Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLogFunc sets a callback receiving every log line.
func WithLogFunc(fn LogFunc) Option {
	return func(c *Client) { c.logFunc = fn }
}

// WithOnConnect sets the connect callback.
func WithOnConnect(fn LifecycleFunc) Option {
	return func(c *Client) { c.onConnect = fn }
}

// WithOnDisconnect sets the disconnect callback.
func WithOnDisconnect(fn LifecycleFunc) Option {
	return func(c *Client) { c.onDisconnect = fn }
}

// WithNotifyTimeout overrides DefaultNotifyTimeout. Non-positive values are ignored.
func WithNotifyTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.notifyTimeout = d
		}
	}
}

// WithCommandQoS overrides DefaultCommandQoS.
func WithCommandQoS(qos byte) Option {
	return func(c *Client) { c.commandQoS = qos }
}

// WithConfig applies the client section of the agent configuration.
func WithConfig(cfg *config.Config) Option {
	return func(c *Client) {
		WithNotifyTimeout(cfg.GetNotifyTimeout())(c)
		c.commandQoS = byte(cfg.Client.CommandQoS) //nolint:gosec // validated to 0..2 by config
	}
}

// Client is a Ditto protocol client bound to one MQTT transport.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Handlers run concurrently with each other and with the caller.
type Client struct {
	transport Transport
	topics    mqtt.Topics
	handlers  registry

	logger  Logger
	logFunc LogFunc

	onConnect    LifecycleFunc
	onDisconnect LifecycleFunc

	notifyTimeout time.Duration
	commandQoS    byte

	started  atomic.Bool
	inflight inflight
}

// New creates a Client on transport. The transport may connect later but
// must be connected before Start.
func New(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport:     transport,
		notifyTimeout: DefaultNotifyTimeout,
		commandQoS:    DefaultCommandQoS,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start subscribes to command requests and runs the connect callback.
//
// It fails with mqtt.ErrNotConnected if the transport is not connected.
// Starting a started client only repeats the subscription.
func (c *Client) Start(ctx context.Context) error {
	if !c.transport.IsConnected() {
		return fmt.Errorf("client: start: %w", mqtt.ErrNotConnected)
	}

	topic := c.topics.CommandRequests()
	if err := c.transport.Subscribe(topic, c.commandQoS, c.handleMessage); err != nil {
		c.log(ctx, LogLevelError, "subscribe to command requests failed", "topic", topic, "error", err)
		return fmt.Errorf("client: subscribe to command requests: %w", err)
	}
	c.started.Store(true)
	c.log(ctx, LogLevelInfo, "subscribed to command requests", "topic", topic, "qos", c.commandQoS)

	c.NotifyConnected(ctx)
	return nil
}

// Stop unsubscribes from command requests and runs the disconnect callback.
// The callback runs even when unsubscribing fails. Handlers still in
// flight are not waited for; see Wait.
func (c *Client) Stop(ctx context.Context) error {
	if !c.started.Swap(false) {
		return ErrNotStarted
	}

	topic := c.topics.CommandRequests()
	err := c.transport.Unsubscribe(topic)
	if err != nil {
		c.log(ctx, LogLevelError, "unsubscribe from command requests failed", "topic", topic, "error", err)
		err = fmt.Errorf("client: unsubscribe from command requests: %w", err)
	} else {
		c.log(ctx, LogLevelInfo, "unsubscribed from command requests", "topic", topic)
	}

	c.NotifyDisconnected(ctx)
	return err
}

// NotifyConnected runs the connect callback, waiting at most the notify
// timeout. Call it when the transport reconnects.
func (c *Client) NotifyConnected(ctx context.Context) {
	c.notify(ctx, "on_connect", c.onConnect)
}

// NotifyDisconnected runs the disconnect callback, waiting at most the
// notify timeout.
func (c *Client) NotifyDisconnected(ctx context.Context) {
	c.notify(ctx, "on_disconnect", c.onDisconnect)
}

// notify runs fn on its own goroutine and waits for it until the notify
// timeout or ctx ends. A callback still running afterwards is left alone.
func (c *Client) notify(ctx context.Context, name string, fn LifecycleFunc) {
	if fn == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				c.log(ctx, LogLevelError, "lifecycle callback panicked", "callback", name, "panic", r)
			}
		}()
		fn(c)
	}()

	timer := time.NewTimer(c.notifyTimeout)
	defer timer.Stop()

	select {
	case <-done:
		c.log(ctx, LogLevelDebug, "lifecycle callback completed", "callback", name)
	case <-timer.C:
		c.log(ctx, LogLevelWarning, "lifecycle callback timed out", "callback", name, "timeout", c.notifyTimeout)
	case <-ctx.Done():
		c.log(ctx, LogLevelWarning, "stopped waiting for lifecycle callback", "callback", name, "error", ctx.Err())
	}
}

// Subscribe registers handlers for every inbound envelope and returns one
// Subscription per handler, in order. A nil handler is skipped and yields
// the zero Subscription.
func (c *Client) Subscribe(handlers ...Handler) []Subscription {
	subs := c.handlers.add(handlers...)
	for _, sub := range subs {
		c.log(context.Background(), LogLevelDebug, "handler subscribed", "subscription", sub)
	}
	return subs
}

// Unsubscribe removes the given handlers. Called without arguments it
// removes every handler.
//
// Handlers that are not registered do not stop the others from being
// removed; each is reported as ErrHandlerNotFound in the joined error.
func (c *Client) Unsubscribe(subs ...Subscription) error {
	ctx := context.Background()
	if len(subs) == 0 {
		n := c.handlers.clear()
		c.log(ctx, LogLevelDebug, "all handlers unsubscribed", "count", n)
		return nil
	}

	if err := c.handlers.remove(subs...); err != nil {
		c.log(ctx, LogLevelWarning, "unsubscribe incomplete", "error", err)
		return err
	}
	c.log(ctx, LogLevelDebug, "handlers unsubscribed", "count", len(subs))
	return nil
}

// HandlerCount returns the number of registered handlers.
func (c *Client) HandlerCount() int {
	return c.handlers.len()
}

// Wait blocks until no handler is running. Messages may keep arriving
// while it waits; Wait returns once the count of running handlers drops
// to zero.
func (c *Client) Wait() {
	c.inflight.wait()
}

// handleMessage is the transport callback for command requests.
func (c *Client) handleMessage(topic string, payload []byte) error {
	ctx := context.Background()
	c.log(ctx, LogLevelDebug, "message received", "topic", topic, "bytes", len(payload))

	handlers := c.handlers.snapshot()
	if len(handlers) == 0 {
		return nil
	}

	env, err := protocol.DecodeEnvelope(payload)
	if err != nil {
		c.log(ctx, LogLevelError, "discarding undecodable message", "topic", topic, "error", err)
		return nil
	}

	requestID := mqtt.ExtractRequestID(topic)
	if requestID == "" {
		c.log(ctx, LogLevelDebug, "one-way message", "ditto_topic", env.Topic.String())
	} else {
		c.log(ctx, LogLevelDebug, "request message", "request_id", requestID, "ditto_topic", env.Topic.String())
	}

	for _, h := range handlers {
		c.dispatch(requestID, env.Clone(), h)
	}
	return nil
}

func (c *Client) dispatch(requestID string, env *protocol.Envelope, h Handler) {
	c.inflight.add()
	go func() {
		defer c.inflight.done()
		defer func() {
			if r := recover(); r != nil {
				c.log(context.Background(), LogLevelError, "handler panicked",
					"request_id", requestID,
					"panic", r,
				)
			}
		}()
		h(requestID, env)
	}()
}

// Reply publishes env as the response to requestID. The response topic
// carries env's status, which must be set.
func (c *Client) Reply(requestID string, env *protocol.Envelope) error {
	if env == nil || env.Status == nil {
		return ErrMissingStatus
	}
	return c.publish(c.topics.CommandResponse(requestID, *env.Status), env)
}

// Send publishes env as an event.
func (c *Client) Send(env *protocol.Envelope) error {
	return c.publish(c.topics.Events(), env)
}

// SendTelemetry publishes env on the telemetry topic.
func (c *Client) SendTelemetry(env *protocol.Envelope) error {
	return c.publish(c.topics.Telemetry(), env)
}

func (c *Client) publish(topic string, env *protocol.Envelope) error {
	ctx := context.Background()
	if env == nil {
		return fmt.Errorf("%w: nil envelope", ErrPublishFailed)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		c.log(ctx, LogLevelError, "encoding envelope failed", "topic", topic, "error", err)
		return fmt.Errorf("%w: encoding envelope: %w", ErrPublishFailed, err)
	}

	if err := c.transport.Publish(topic, payload, publishQoS, false); err != nil {
		c.log(ctx, LogLevelError, "publish failed", "topic", topic, "error", err)
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	c.log(ctx, LogLevelDebug, "published", "topic", topic, "payload", string(payload))
	return nil
}
