package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Engine.Type == "" {
		return fmt.Errorf("engine.type is required")
	}

	switch c.Auth.Type {
	case "none":
	case "apikey":
		if len(c.Auth.APIKeys) == 0 {
			return fmt.Errorf("auth.type is apikey but no api_keys configured")
		}
		for i, entry := range c.Auth.APIKeys {
			if entry.Key == "" {
				return fmt.Errorf("auth.api_keys[%d]: key is empty", i)
			}
		}
	default:
		return fmt.Errorf("auth.type must be \"none\" or \"apikey\", got %q", c.Auth.Type)
	}

	if c.Storage.Enabled && c.Storage.MaxSize < 0 {
		return fmt.Errorf("storage.max_size must not be negative, got %d", c.Storage.MaxSize)
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		return fmt.Errorf("observability.metrics.path must start with /, got %q", c.Observability.Metrics.Path)
	}

	return nil
}
