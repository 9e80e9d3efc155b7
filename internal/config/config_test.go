package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearAPIKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearAPIKeyEnv(t)
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("file should be reported as absent")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Generation.Provider != "pollinations" {
		t.Fatalf("provider = %q", cfg.Generation.Provider)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.Multiplier != 2.0 {
		t.Fatalf("retry defaults = %+v", cfg.Retry)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults = %+v", cfg.Logging)
	}
	if !filepath.IsAbs(cfg.Paths.DatasetDir) {
		t.Fatalf("dataset dir not expanded: %q", cfg.Paths.DatasetDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	clearAPIKeyEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "gazette.toml")
	content := `
[paths]
dataset_dir = "` + filepath.ToSlash(filepath.Join(dir, "articles")) + `"

[generation]
provider = " Pollinations "
rate_limit_seconds = -3

[pollinations]
image_base_url = "https://img.example.com/"

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("file should be reported as present")
	}
	if cfg.Generation.Provider != "pollinations" {
		t.Fatalf("provider not normalized: %q", cfg.Generation.Provider)
	}
	if cfg.Generation.RateLimitSeconds != 0 {
		t.Fatalf("negative rate limit should clamp to 0, got %d", cfg.Generation.RateLimitSeconds)
	}
	if cfg.Pollinations.ImageBaseURL != "https://img.example.com" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Pollinations.ImageBaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not lowered: %q", cfg.Logging.Level)
	}
	if cfg.Paths.DatasetDir != filepath.Join(dir, "articles") {
		t.Fatalf("dataset dir = %q", cfg.Paths.DatasetDir)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	clearAPIKeyEnv(t)
	path := filepath.Join(t.TempDir(), "gazette.toml")
	if err := os.WriteFile(path, []byte("[generation]\nprovider = \"dalle\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "generation.provider") {
		t.Fatalf("err = %v", err)
	}
}

func TestGeminiProviderRequiresAPIKey(t *testing.T) {
	clearAPIKeyEnv(t)
	path := filepath.Join(t.TempDir(), "gazette.toml")
	if err := os.WriteFile(path, []byte("[generation]\nprovider = \"gemini\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "gemini.api_key") {
		t.Fatalf("err = %v", err)
	}
}

func TestGeminiAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("GOOGLE_API_KEY", "")
	path := filepath.Join(t.TempDir(), "gazette.toml")
	if err := os.WriteFile(path, []byte("[generation]\nprovider = \"gemini\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Fatalf("api key = %q", cfg.Gemini.APIKey)
	}
}

func TestLoadRejectsExcessiveRetries(t *testing.T) {
	clearAPIKeyEnv(t)
	path := filepath.Join(t.TempDir(), "gazette.toml")
	if err := os.WriteFile(path, []byte("[retry]\nmax_attempts = 50\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "retry.max_attempts") {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	clearAPIKeyEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("sample file should exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/projects/data")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "projects", "data") {
		t.Fatalf("expanded = %q", got)
	}
}
