package main

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/gray-logic-ditto/internal/client"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-ditto/internal/model"
	"github.com/nerrad567/gray-logic-ditto/internal/protocol"
)

// mockTransport implements client.Transport for testing.
type mockTransport struct {
	mu        sync.Mutex
	published []mockPublish
	handlers  map[string]mqtt.MessageHandler
}

type mockPublish struct {
	Topic   string
	Payload []byte
}

func newMockTransport() *mockTransport {
	return &mockTransport{handlers: make(map[string]mqtt.MessageHandler)}
}

func (m *mockTransport) Publish(topic string, payload []byte, _ byte, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, mockPublish{Topic: topic, Payload: payload})
	return nil
}

func (m *mockTransport) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	return nil
}

func (m *mockTransport) Unsubscribe(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, topic)
	return nil
}

func (m *mockTransport) IsConnected() bool { return true }

func (m *mockTransport) getPublished() []mockPublish {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockPublish(nil), m.published...)
}

func (m *mockTransport) deliver(t *testing.T, topic, payload string) {
	t.Helper()
	m.mu.Lock()
	h := m.handlers[mqtt.Topics{}.CommandRequests()]
	m.mu.Unlock()
	if h == nil {
		t.Fatal("no command request subscription")
	}
	if err := h(topic, []byte(payload)); err != nil {
		t.Fatalf("handler error = %v", err)
	}
}

func testAgent() *agent {
	log := logging.NewWithWriter(&bytes.Buffer{}, config.LoggingConfig{Level: "debug"}, "test")
	a := newAgent(model.MustParseNamespacedID("org.acme:device-1"), log)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600)) }
	return a
}

func decodeWire(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	var wire map[string]any
	if err := json.Unmarshal(payload, &wire); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	return wire
}

func TestAgentResponse(t *testing.T) {
	a := testAgent()
	req, err := protocol.DecodeEnvelope([]byte(`{
		"topic": "org.acme/device-1/things/live/messages/switchOn",
		"headers": {"correlation-id": "corr-7", "response-required": true},
		"path": "/inbox/messages/switchOn",
		"value": {"level": 80}
	}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}

	got := a.response(req).ToWireForm()
	want := map[string]any{
		"topic":   "org.acme/device-1/things/live/messages/switchOn",
		"headers": map[string]any{"correlation-id": "corr-7", "response-required": false},
		"path":    "/outbox/messages/switchOn",
		"status":  204,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestAgentResponse_NoHeaders(t *testing.T) {
	a := testAgent()
	req := protocol.NewEnvelope(protocol.MustParseTopic("org.acme/device-1/things/live/messages/ping"))
	req.Headers = nil

	env := a.response(req)
	if _, ok := env.Headers.CorrelationID(); ok {
		t.Error("response carries a correlation-id the request did not have")
	}
	if env.Status == nil || *env.Status != 204 {
		t.Errorf("Status = %v, want 204", env.Status)
	}
}

func TestAgentHandler(t *testing.T) {
	a := testAgent()
	tr := newMockTransport()
	c := client.New(tr)
	c.Subscribe(a.handler(c))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	request := `{"topic":"org.acme/device-1/things/live/messages/switchOn","headers":{"correlation-id":"corr-7"},"path":"/inbox/messages/switchOn"}`

	tr.deliver(t, "command///req/7/switchOn", request)
	tr.deliver(t, "command///req//switchOn", request)
	c.Wait()

	published := tr.getPublished()
	if len(published) != 1 {
		t.Fatalf("published = %d messages, want 1 (one-way messages get no reply)", len(published))
	}
	if published[0].Topic != "command///res/7/204" {
		t.Errorf("reply topic = %q, want command///res/7/204", published[0].Topic)
	}
	wire := decodeWire(t, published[0].Payload)
	if wire["path"] != "/outbox/messages/switchOn" {
		t.Errorf("reply path = %v", wire["path"])
	}
}

func TestAgentConnectionEvent(t *testing.T) {
	a := testAgent()

	got := a.connectionEvent().ToWireForm()
	want := map[string]any{
		"topic":   "org.acme/device-1/things/twin/events/modified",
		"headers": map[string]any{"response-required": false},
		"path":    "/attributes/connection",
		"value": map[string]any{
			"status": "connected",
			"since":  "2026-03-01T11:00:00Z",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("connection event mismatch (-want +got):\n%s", diff)
	}
}

func TestAgentOnConnect(t *testing.T) {
	a := testAgent()
	tr := newMockTransport()
	c := client.New(tr, client.WithOnConnect(a.onConnect), client.WithOnDisconnect(a.onDisconnect))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	published := tr.getPublished()
	if len(published) != 1 || published[0].Topic != "e" {
		t.Fatalf("published = %+v, want one event on e", published)
	}
	wire := decodeWire(t, published[0].Payload)
	if wire["path"] != "/attributes/connection" {
		t.Errorf("event path = %v", wire["path"])
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
