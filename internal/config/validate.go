package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGeneration() error {
	switch c.Generation.Provider {
	case "pollinations":
		return nil
	case "gemini":
		if c.Gemini.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/gazette/config.toml"
			}
			return fmt.Errorf("gemini.api_key is required when generation.provider is \"gemini\". Set GEMINI_API_KEY env var or edit %s (create with 'gazette config init')", defaultPath)
		}
		return nil
	default:
		return fmt.Errorf("generation.provider must be \"pollinations\" or \"gemini\", got %q", c.Generation.Provider)
	}
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts > 20 {
		return errors.New("retry.max_attempts must be 20 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
