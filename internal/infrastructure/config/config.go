package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Primary store identifiers accepted in sink.primary.
const (
	PrimaryInfluxDB = "influxdb"
	PrimaryTSDB     = "tsdb"
)

// Config is the root configuration structure for the sensor simulator.
// All configuration can be loaded from YAML and overridden by environment variables.
type Config struct {
	Emitter  EmitterConfig  `yaml:"emitter"`
	Sink     SinkConfig     `yaml:"sink"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	TSDB     TSDBConfig     `yaml:"tsdb"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EmitterConfig controls the emission cadence and the startup connection policy.
type EmitterConfig struct {
	// Interval between readings in seconds. Default: 5
	Interval int `yaml:"interval"`

	// StartupDelay is a fixed wait in seconds before the first connection attempt.
	// Default: 0 (rely on connection retry instead)
	StartupDelay int `yaml:"startup_delay"`

	// Connect controls retry with exponential backoff while opening the sink.
	Connect ConnectRetryConfig `yaml:"connect"`
}

// ConnectRetryConfig contains startup connection retry settings.
type ConnectRetryConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	InitialDelay int `yaml:"initial_delay"` // seconds
	MaxDelay     int `yaml:"max_delay"`     // seconds
}

// SinkConfig selects the primary store. Mirrors (MQTT, Kafka, journal)
// are enabled in their own sections.
type SinkConfig struct {
	// Primary is "influxdb" or "tsdb".
	Primary string `yaml:"primary"`
}

// InfluxDBConfig contains InfluxDB v2 connection settings.
type InfluxDBConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`

	// WriteTimeout bounds each synchronous write in seconds. Default: 10
	WriteTimeout int `yaml:"write_timeout"`
}

// TSDBConfig contains VictoriaMetrics connection settings.
type TSDBConfig struct {
	URL string `yaml:"url"`

	// WriteTimeout bounds each synchronous write in seconds. Default: 5
	WriteTimeout int `yaml:"write_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
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

// KafkaConfig contains Kafka producer settings.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`

	// WriteTimeout bounds each produce call in seconds. Default: 10
	WriteTimeout int `yaml:"write_timeout"`
}

// DatabaseConfig contains settings for the local SQLite reading journal.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains the read-only status HTTP server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, if path is non-empty
//  3. Environment variables (override file values)
//
// The InfluxDB connection honours INFLUXDB_URL, INFLUXDB_TOKEN, INFLUXDB_ORG
// and INFLUXDB_BUCKET. Other settings use the SENSORSIM_SECTION_KEY pattern,
// for example SENSORSIM_EMITTER_INTERVAL or SENSORSIM_MQTT_HOST.
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for environment only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with defaults matching the docker-compose stack.
func defaultConfig() *Config {
	return &Config{
		Emitter: EmitterConfig{
			Interval: 5,
			Connect: ConnectRetryConfig{
				MaxAttempts:  5,
				InitialDelay: 1,
				MaxDelay:     30,
			},
		},
		Sink: SinkConfig{
			Primary: PrimaryInfluxDB,
		},
		InfluxDB: InfluxDBConfig{
			URL:          "http://influxdb:8086",
			Org:          "mi_empresa",
			Bucket:       "sensores",
			WriteTimeout: 10,
		},
		TSDB: TSDBConfig{
			URL:          "http://victoriametrics:8428",
			WriteTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sensorsim",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Kafka: KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			Topic:        "sensor.readings",
			WriteTimeout: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/sensorsim.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	// InfluxDB (names shared with the rest of the docker-compose stack)
	setString(&cfg.InfluxDB.URL, "INFLUXDB_URL")
	setString(&cfg.InfluxDB.Token, "INFLUXDB_TOKEN")
	setString(&cfg.InfluxDB.Org, "INFLUXDB_ORG")
	setString(&cfg.InfluxDB.Bucket, "INFLUXDB_BUCKET")

	// Sink selection
	setString(&cfg.Sink.Primary, "SENSORSIM_SINK_PRIMARY")
	setString(&cfg.TSDB.URL, "SENSORSIM_TSDB_URL")

	// MQTT
	setString(&cfg.MQTT.Broker.Host, "SENSORSIM_MQTT_HOST")
	setString(&cfg.MQTT.Auth.Username, "SENSORSIM_MQTT_USERNAME")
	setString(&cfg.MQTT.Auth.Password, "SENSORSIM_MQTT_PASSWORD")

	// Kafka
	if v := os.Getenv("SENSORSIM_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	// Database
	setString(&cfg.Database.Path, "SENSORSIM_DATABASE_PATH")

	// API
	setString(&cfg.API.Host, "SENSORSIM_API_HOST")

	// Logging
	setString(&cfg.Logging.Level, "SENSORSIM_LOG_LEVEL")
	setString(&cfg.Logging.Format, "SENSORSIM_LOG_FORMAT")

	var errs []error
	for _, o := range []struct {
		env string
		dst *int
	}{
		{"SENSORSIM_EMITTER_INTERVAL", &cfg.Emitter.Interval},
		{"SENSORSIM_EMITTER_STARTUP_DELAY", &cfg.Emitter.StartupDelay},
		{"SENSORSIM_MQTT_PORT", &cfg.MQTT.Broker.Port},
		{"SENSORSIM_API_PORT", &cfg.API.Port},
	} {
		if err := setInt(o.dst, o.env); err != nil {
			errs = append(errs, err)
		}
	}
	for _, o := range []struct {
		env string
		dst *bool
	}{
		{"SENSORSIM_MQTT_ENABLED", &cfg.MQTT.Enabled},
		{"SENSORSIM_KAFKA_ENABLED", &cfg.Kafka.Enabled},
		{"SENSORSIM_DATABASE_ENABLED", &cfg.Database.Enabled},
		{"SENSORSIM_API_ENABLED", &cfg.API.Enabled},
	} {
		if err := setBool(o.dst, o.env); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	*dst = b
	return nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Emitter
	if c.Emitter.Interval < 1 {
		errs = append(errs, "emitter.interval must be at least 1 second")
	}
	if c.Emitter.StartupDelay < 0 {
		errs = append(errs, "emitter.startup_delay cannot be negative")
	}
	if c.Emitter.Connect.MaxAttempts < 1 {
		errs = append(errs, "emitter.connect.max_attempts must be at least 1")
	}

	// Primary store
	switch c.Sink.Primary {
	case PrimaryInfluxDB:
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required (set INFLUXDB_URL)")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required (set INFLUXDB_ORG)")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required (set INFLUXDB_BUCKET)")
		}
	case PrimaryTSDB:
		if c.TSDB.URL == "" {
			errs = append(errs, "tsdb.url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("sink.primary must be %q or %q", PrimaryInfluxDB, PrimaryTSDB))
	}

	// Mirrors
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, "kafka.brokers is required")
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, "kafka.topic is required")
		}
	}
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// API
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetInterval returns the emission interval as a Duration.
func (c *Config) GetInterval() time.Duration {
	return time.Duration(c.Emitter.Interval) * time.Second
}

// GetStartupDelay returns the startup delay as a Duration.
func (c *Config) GetStartupDelay() time.Duration {
	return time.Duration(c.Emitter.StartupDelay) * time.Second
}

// GetConnectInitialDelay returns the first connection backoff as a Duration.
func (c *Config) GetConnectInitialDelay() time.Duration {
	return time.Duration(c.Emitter.Connect.InitialDelay) * time.Second
}

// GetConnectMaxDelay returns the connection backoff cap as a Duration.
func (c *Config) GetConnectMaxDelay() time.Duration {
	return time.Duration(c.Emitter.Connect.MaxDelay) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (t APITimeoutConfig) GetReadTimeout() time.Duration {
	return time.Duration(t.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (t APITimeoutConfig) GetWriteTimeout() time.Duration {
	return time.Duration(t.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (t APITimeoutConfig) GetIdleTimeout() time.Duration {
	return time.Duration(t.Idle) * time.Second
}
