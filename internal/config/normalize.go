package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeneration()
	c.normalizeRetry()
	c.normalizePollinations()
	c.normalizeGemini()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DatasetDir) == "" {
		c.Paths.DatasetDir = defaultDatasetDir
	}
	if c.Paths.DatasetDir, err = expandPath(c.Paths.DatasetDir); err != nil {
		return fmt.Errorf("paths.dataset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeGeneration() {
	c.Generation.Provider = strings.ToLower(strings.TrimSpace(c.Generation.Provider))
	if c.Generation.Provider == "" {
		c.Generation.Provider = defaultProvider
	}
	if c.Generation.RateLimitSeconds < 0 {
		c.Generation.RateLimitSeconds = 0
	}
}

func (c *Config) normalizeRetry() {
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultRetryMaxAttempts
	}
	if c.Retry.BaseDelaySecs <= 0 {
		c.Retry.BaseDelaySecs = defaultRetryBaseDelaySecs
	}
	if c.Retry.Multiplier < 1 {
		c.Retry.Multiplier = defaultRetryMultiplier
	}
	if c.Retry.MaxDelaySeconds <= 0 {
		c.Retry.MaxDelaySeconds = defaultRetryMaxDelaySeconds
	}
}

func (c *Config) normalizePollinations() {
	c.Pollinations.TextBaseURL = strings.TrimRight(strings.TrimSpace(c.Pollinations.TextBaseURL), "/")
	if c.Pollinations.TextBaseURL == "" {
		c.Pollinations.TextBaseURL = defaultPollinationsTextURL
	}
	c.Pollinations.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.Pollinations.ImageBaseURL), "/")
	if c.Pollinations.ImageBaseURL == "" {
		c.Pollinations.ImageBaseURL = defaultPollinationsImageURL
	}
	c.Pollinations.Model = strings.TrimSpace(c.Pollinations.Model)
	if c.Pollinations.Width <= 0 {
		c.Pollinations.Width = defaultPollinationsWidth
	}
	if c.Pollinations.Height <= 0 {
		c.Pollinations.Height = defaultPollinationsHeight
	}
	if c.Pollinations.TimeoutSeconds <= 0 {
		c.Pollinations.TimeoutSeconds = defaultPollinationsTimeout
	}
}

func (c *Config) normalizeGemini() {
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	if c.Gemini.APIKey == "" {
		for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
			if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
				c.Gemini.APIKey = strings.TrimSpace(value)
				break
			}
		}
	}
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.TextModel = strings.TrimSpace(c.Gemini.TextModel)
	if c.Gemini.TextModel == "" {
		c.Gemini.TextModel = defaultGeminiTextModel
	}
	c.Gemini.ImageModel = strings.TrimSpace(c.Gemini.ImageModel)
	if c.Gemini.ImageModel == "" {
		c.Gemini.ImageModel = defaultGeminiImageModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
