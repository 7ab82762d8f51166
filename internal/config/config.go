// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"churnrisk/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Artifacts contains model artifact settings
	Artifacts ArtifactsConfig `yaml:"artifacts"`

	// Server contains HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Audit contains prediction audit store settings
	Audit AuditConfig `yaml:"audit"`

	// Stream contains Kafka scoring worker settings
	Stream StreamConfig `yaml:"stream"`

	// Logging contains logging configuration
	Logging logging.Config `yaml:"logging"`
}

// ArtifactsConfig locates the serialized model artifacts
type ArtifactsConfig struct {
	// Dir is the directory holding classifier.json, scaler.json, threshold.json
	Dir string `yaml:"dir"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `yaml:"addr"`
}

// AuditConfig contains prediction audit store settings
type AuditConfig struct {
	// Enabled turns on the Postgres audit log
	Enabled bool `yaml:"enabled"`

	// DSN is the Postgres connection string
	DSN string `yaml:"dsn"`
}

// StreamConfig contains Kafka scoring worker settings
type StreamConfig struct {
	// Enabled turns on the stream scoring worker
	Enabled bool `yaml:"enabled"`

	// Brokers is the Kafka broker list
	Brokers []string `yaml:"brokers"`

	// RecordsTopic carries raw customer records to score
	RecordsTopic string `yaml:"records_topic"`

	// DecisionsTopic receives scored decisions
	DecisionsTopic string `yaml:"decisions_topic"`

	// GroupID is the consumer group for the worker
	GroupID string `yaml:"group_id"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	artifactDir := filepath.Join(homeDir, ".churnrisk", "artifacts")

	return &Config{
		Artifacts: ArtifactsConfig{
			Dir: artifactDir,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Audit: AuditConfig{
			Enabled: false,
			DSN:     "postgres://localhost:5432/churnrisk?sslmode=disable",
		},
		Stream: StreamConfig{
			Enabled:        false,
			Brokers:        []string{"localhost:9092"},
			RecordsTopic:   "churn-records",
			DecisionsTopic: "churn-decisions",
			GroupID:        "churnrisk-scorer",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a YAML file, falling back to defaults and
// applying environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHURNRISK_ARTIFACTS_DIR"); v != "" {
		cfg.Artifacts.Dir = v
	}
	if v := os.Getenv("CHURNRISK_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CHURNRISK_AUDIT_DSN"); v != "" {
		cfg.Audit.DSN = v
		cfg.Audit.Enabled = true
	}
	if v := os.Getenv("CHURNRISK_KAFKA_BROKERS"); v != "" {
		cfg.Stream.Brokers = []string{v}
		cfg.Stream.Enabled = true
	}
	if v := os.Getenv("CHURNRISK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
