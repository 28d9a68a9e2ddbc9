// Package logging provides structured logging for the Ditto agent.
//
// This package wraps Go's standard log/slog package so that the
// transport, the protocol client and the agent all log the same way.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("connected", "broker", cfg.MQTT.Broker.Host)
//
// # Security
//
// Never log broker passwords or private key material. Envelope payloads
// are logged at debug level only.
package logging
