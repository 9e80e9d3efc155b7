package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"gazette/internal/config"
	"gazette/internal/logging"
	"gazette/internal/pipeline"
)

// commandContext carries lazily-initialized shared state between commands.
type commandContext struct {
	configFlag *string

	cfg    *config.Config
	logger *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads .env, the TOML config, and the logger exactly once.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	// Credentials such as GEMINI_API_KEY may live in a project .env file.
	_ = godotenv.Load()

	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	c.cfg = cfg
	c.logger = logger
	return c.cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if _, err := c.ensureConfig(); err != nil {
		return nil, err
	}
	return c.logger, nil
}

func (c *commandContext) pipeline() (*pipeline.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, c.logger)
}

func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	var writer io.Writer = os.Stdout
	if cfg.Paths.LogDir != "" {
		file, err := logging.OpenLogFile(filepath.Join(cfg.Paths.LogDir, "gazette.log"))
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writer = io.MultiWriter(os.Stdout, file)
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: writer,
	})
}
