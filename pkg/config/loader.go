package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, LOKAL_CONFIG env, ./config.yaml, /etc/lokal/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// explicit argument, LOKAL_CONFIG env, ./config.yaml, /etc/lokal/config.yaml.
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("LOKAL_CONFIG"); env != "" {
		return env
	}
	for _, candidate := range []string{"config.yaml", "/etc/lokal/config.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps LOKAL_* environment variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOKAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOKAL_ENGINE"); v != "" {
		cfg.Engine.Type = v
	}
	if v := os.Getenv("LOKAL_MODEL"); v != "" {
		cfg.Engine.DefaultModel = v
	}
	if v := os.Getenv("LOKAL_AUTH"); v != "" {
		cfg.Auth.Type = v
	}
	if v := os.Getenv("LOKAL_METRICS"); v != "" {
		cfg.Observability.Metrics.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
}

// resolveFileReferences loads values for fields with a _file variant.
// A set inline value wins over the file reference.
func resolveFileReferences(cfg *Config) error {
	for i := range cfg.Auth.APIKeys {
		entry := &cfg.Auth.APIKeys[i]
		if entry.Key != "" || entry.KeyFile == "" {
			continue
		}
		data, err := os.ReadFile(entry.KeyFile)
		if err != nil {
			return fmt.Errorf("reading api key file %s: %w", entry.KeyFile, err)
		}
		entry.Key = strings.TrimSpace(string(data))
	}
	return nil
}
