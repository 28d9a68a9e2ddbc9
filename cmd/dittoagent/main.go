// Ditto Agent - Eclipse Ditto device agent over Hono MQTT
//
// The agent connects one thing to a Hono MQTT adapter, answers every live
// request addressed to it and reports its connection state as a thing
// attribute.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-ditto/internal/client"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-ditto/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"

	// shutdownTimeout bounds Stop and the wait for in-flight handlers.
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the agent logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting ditto agent",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version).With("thing_id", cfg.Thing.ThingID)
	log.Info("configuration loaded",
		"path", configPath,
		"level", cfg.Logging.Level,
	)

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", mqttClient.ClientID(),
	)

	a := newAgent(cfg.GetThingID(), log)
	dittoClient := client.New(mqttClient,
		client.WithConfig(cfg),
		client.WithLogger(log),
		client.WithOnConnect(a.onConnect),
		client.WithOnDisconnect(a.onDisconnect),
	)
	dittoClient.Subscribe(a.handler(dittoClient))

	if err := dittoClient.Start(ctx); err != nil {
		return fmt.Errorf("starting ditto client: %w", err)
	}

	// Subscriptions are restored by the transport; only the callback needs
	// to hear about reconnects. paho handlers must not block.
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
		go dittoClient.NotifyConnected(ctx)
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT connection lost", "error", err)
	})

	log.Info("ditto agent running")
	<-ctx.Done()
	log.Info("shutdown signal received")

	return shutdown(dittoClient, log)
}

// shutdown stops the client and waits for in-flight handlers, both bounded
// by shutdownTimeout.
func shutdown(c *client.Client, log *logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := c.Stop(ctx); err != nil {
		log.Error("error stopping ditto client", "error", err)
	}

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("ditto agent stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for handlers: %w", ctx.Err())
	}
}

// getConfigPath returns the configuration file path.
// DITTO_CONFIG overrides the default.
func getConfigPath() string {
	if path := os.Getenv("DITTO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
