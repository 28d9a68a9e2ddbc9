// Package config handles loading and validating the Ditto agent configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Broker credentials should be set via DITTO_MQTT_USERNAME and DITTO_MQTT_PASSWORD
//   - The config file should have restricted permissions (0600)
//   - Private key files referenced by mqtt.broker.key_file must not be world readable
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Thing.ThingID)
package config
