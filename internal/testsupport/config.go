package testsupport

import (
	"path/filepath"
	"testing"

	"gazette/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp dataset directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatasetDir = filepath.Join(base, "dataset")
	cfg.Generation.RateLimitSeconds = 0
	cfg.Retry.MaxAttempts = 2
	cfg.Retry.BaseDelaySecs = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProvider sets the generation backend on the test config.
func WithProvider(provider string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generation.Provider = provider
	}
}

// WithDatasetDir overrides the dataset root on the test config.
func WithDatasetDir(dir string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.DatasetDir = dir
	}
}
