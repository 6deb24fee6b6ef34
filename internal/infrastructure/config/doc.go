// Package config handles loading and validating the sensor simulator configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The simulator runs unchanged inside the existing docker-compose stack with
// no file at all: INFLUXDB_URL, INFLUXDB_TOKEN, INFLUXDB_ORG and
// INFLUXDB_BUCKET are read from the environment and everything else uses
// defaults.
//
// Security Considerations:
//   - Tokens and passwords should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load(os.Getenv("SENSORSIM_CONFIG"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.InfluxDB.Bucket)
package config
