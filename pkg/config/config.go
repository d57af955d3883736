// Package config provides unified configuration for the lokal gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (LOKAL_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"time"

	"github.com/rhuss/lokal/pkg/prompt"
)

// Config holds all configuration for the lokal gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Engine        EngineConfig        `yaml:"engine"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 300s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// EngineConfig holds inference engine settings. Options carries both
// engine-construction options (tokenizer, dtype, quantization, ...) and
// default generation options; the provider partitions them at call time.
type EngineConfig struct {
	Type         string                     `yaml:"type"`          // registered engine binding, default: "echo"
	DefaultModel string                     `yaml:"default_model"` // used when a request names no model
	Options      map[string]any             `yaml:"options"`
	Templates    map[string]prompt.Template `yaml:"templates"` // per-model custom prompt templates
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"`     // "none" or "apikey", default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"` // API key entries for type=apikey
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	KeyFile string `yaml:"key_file"` // _file variant for key
	Subject string `yaml:"subject"`
}

// StorageConfig holds the in-memory response store settings.
type StorageConfig struct {
	Enabled bool `yaml:"enabled"`  // default: true
	MaxSize int  `yaml:"max_size"` // default: 1000
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings; environment variables
// LOKAL_DEBUG and LOKAL_LOG_LEVEL override these.
type DebugConfig struct {
	Categories string `yaml:"categories"`
	Level      string `yaml:"level"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    300 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			Type: "echo",
		},
		Auth: AuthConfig{
			Type: "none",
		},
		Storage: StorageConfig{
			Enabled: true,
			MaxSize: 1000,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
