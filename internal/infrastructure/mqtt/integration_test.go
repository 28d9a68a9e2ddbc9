//go:build integration

package mqtt

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// Broker-backed tests. They require an MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -count=1 -v ./internal/infrastructure/mqtt/...

func connectTest(t *testing.T, suffix string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = fmt.Sprintf("ditto-agent-it-%s-%d", suffix, time.Now().UnixNano())

	c, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestIntegration_ConnectGeneratesClientID(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = ""

	c, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	if c.ClientID() == "" {
		t.Error("ClientID() empty, want generated id")
	}
	if !c.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestIntegration_SubscriptionTracking(t *testing.T) {
	c := connectTest(t, "track")
	handler := func(string, []byte) error { return nil }

	topics := []string{Topics{}.CommandRequests(), "command///res/+/+"}
	for _, topic := range topics {
		if err := c.Subscribe(topic, 1, handler); err != nil {
			t.Fatalf("Subscribe(%q) error = %v", topic, err)
		}
	}

	if got := c.SubscriptionCount(); got != len(topics) {
		t.Errorf("SubscriptionCount() = %d, want %d", got, len(topics))
	}

	if err := c.Unsubscribe(topics[0]); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if c.HasSubscription(topics[0]) {
		t.Errorf("HasSubscription(%q) = true after Unsubscribe", topics[0])
	}
	if !c.HasSubscription(topics[1]) {
		t.Errorf("HasSubscription(%q) = false", topics[1])
	}
}

func TestIntegration_CommandRoundtrip(t *testing.T) {
	c := connectTest(t, "roundtrip")

	var (
		mu      sync.Mutex
		gotID   string
		gotBody string
	)
	received := make(chan struct{}, 1)

	err := c.Subscribe(Topics{}.CommandRequests(), 1, func(topic string, payload []byte) error {
		mu.Lock()
		gotID = ExtractRequestID(topic)
		gotBody = string(payload)
		mu.Unlock()
		select {
		case received <- struct{}{}:
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	body := `{"topic":"org.acme/device-1/things/live/messages/ping","headers":{},"path":"/inbox/messages/ping"}`
	if err := c.Publish("command///req/77/ping", []byte(body), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for command request")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotID != "77" {
		t.Errorf("request id = %q, want 77", gotID)
	}
	if gotBody != body {
		t.Errorf("payload = %q, want %q", gotBody, body)
	}
}

func TestIntegration_HealthCheck(t *testing.T) {
	c := connectTest(t, "health")

	if err := c.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	_ = c.Close()
	if err := c.HealthCheck(t.Context()); err == nil {
		t.Error("HealthCheck() after Close() error = nil")
	}
}
