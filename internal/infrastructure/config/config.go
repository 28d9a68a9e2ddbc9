package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-ditto/internal/model"
)

// Config is the root configuration structure for the Ditto agent.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Client  ClientConfig  `yaml:"client"`
	Thing   ThingConfig   `yaml:"thing"`
	Logging LoggingConfig `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	KeepAlive int                 `yaml:"keep_alive"` // seconds
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	TLS  bool   `yaml:"tls"`

	// ClientID identifies the agent at the broker. Empty means a random
	// UUID is generated at connect time.
	ClientID string `yaml:"client_id"`

	// CAFile, CertFile and KeyFile are PEM files used when TLS is on.
	// CertFile and KeyFile enable client certificate authentication.
	CAFile   string `yaml:"ca_file"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// ClientConfig contains settings of the Ditto protocol client.
type ClientConfig struct {
	// NotifyTimeout bounds how long connect and disconnect notification
	// waits for the lifecycle callback, in seconds.
	NotifyTimeout int `yaml:"notify_timeout"`

	// CommandQoS is the QoS of the command request subscription.
	CommandQoS int `yaml:"command_qos"`
}

// ThingConfig identifies the thing this agent represents.
type ThingConfig struct {
	ThingID string `yaml:"thing_id"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DITTO_SECTION_KEY
// For example: DITTO_MQTT_HOST, DITTO_THING_ID
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS:       1,
			KeepAlive: 60,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Client: ClientConfig{
			NotifyTimeout: 60,
			CommandQoS:    1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DITTO_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// MQTT
	if v := os.Getenv("DITTO_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("DITTO_MQTT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing DITTO_MQTT_PORT: %w", err)
		}
		cfg.MQTT.Broker.Port = port
	}
	if v := os.Getenv("DITTO_MQTT_CLIENT_ID"); v != "" {
		cfg.MQTT.Broker.ClientID = v
	}
	if v := os.Getenv("DITTO_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("DITTO_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Logging
	if v := os.Getenv("DITTO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Thing
	if v := os.Getenv("DITTO_THING_ID"); v != "" {
		cfg.Thing.ThingID = v
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.KeepAlive < 0 {
		errs = append(errs, "mqtt.keep_alive must not be negative")
	}
	if (c.MQTT.Broker.CertFile == "") != (c.MQTT.Broker.KeyFile == "") {
		errs = append(errs, "mqtt.broker.cert_file and mqtt.broker.key_file must be set together")
	}
	if !c.MQTT.Broker.TLS && (c.MQTT.Broker.CAFile != "" || c.MQTT.Broker.CertFile != "") {
		errs = append(errs, "mqtt.broker.tls must be enabled to use certificate files")
	}

	// Client validation
	if c.Client.NotifyTimeout < 1 {
		errs = append(errs, "client.notify_timeout must be at least 1 second")
	}
	if c.Client.CommandQoS < 0 || c.Client.CommandQoS > 2 {
		errs = append(errs, "client.command_qos must be 0, 1, or 2")
	}

	// Thing validation
	if c.Thing.ThingID == "" {
		errs = append(errs, "thing.thing_id is required (set DITTO_THING_ID environment variable)")
	} else if _, err := model.ParseNamespacedID(c.Thing.ThingID); err != nil {
		errs = append(errs, fmt.Sprintf("thing.thing_id: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetNotifyTimeout returns the lifecycle notification timeout as a Duration.
func (c *Config) GetNotifyTimeout() time.Duration {
	return time.Duration(c.Client.NotifyTimeout) * time.Second
}

// GetKeepAlive returns the MQTT keepalive interval as a Duration.
func (c *MQTTConfig) GetKeepAlive() time.Duration {
	return time.Duration(c.KeepAlive) * time.Second
}

// GetThingID returns the configured thing id. Validate must have passed.
func (c *Config) GetThingID() model.NamespacedID {
	id, _ := model.ParseNamespacedID(c.Thing.ThingID)
	return id
}
