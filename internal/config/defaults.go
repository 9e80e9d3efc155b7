package config

const (
	defaultDatasetDir           = "dataset"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultProvider             = "pollinations"
	defaultRateLimitSeconds     = 5
	defaultRetryMaxAttempts     = 5
	defaultRetryBaseDelaySecs   = 1
	defaultRetryMultiplier      = 2.0
	defaultRetryMaxDelaySeconds = 30
	defaultPollinationsTextURL  = "https://text.pollinations.ai"
	defaultPollinationsImageURL = "https://image.pollinations.ai"
	defaultPollinationsModel    = "sdxl"
	defaultPollinationsWidth    = 1024
	defaultPollinationsHeight   = 1024
	defaultPollinationsTimeout  = 30
	defaultGeminiBaseURL        = "https://generativelanguage.googleapis.com"
	defaultGeminiTextModel      = "gemini-2.5-flash"
	defaultGeminiImageModel     = "imagen-4.0-fast-generate-001"
	defaultGeminiTimeoutSeconds = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir: defaultDatasetDir,
		},
		Generation: Generation{
			Provider:         defaultProvider,
			RateLimitSeconds: defaultRateLimitSeconds,
		},
		Retry: Retry{
			MaxAttempts:     defaultRetryMaxAttempts,
			BaseDelaySecs:   defaultRetryBaseDelaySecs,
			Multiplier:      defaultRetryMultiplier,
			MaxDelaySeconds: defaultRetryMaxDelaySeconds,
		},
		Pollinations: Pollinations{
			TextBaseURL:    defaultPollinationsTextURL,
			ImageBaseURL:   defaultPollinationsImageURL,
			Model:          defaultPollinationsModel,
			Width:          defaultPollinationsWidth,
			Height:         defaultPollinationsHeight,
			TimeoutSeconds: defaultPollinationsTimeout,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			TextModel:      defaultGeminiTextModel,
			ImageModel:     defaultGeminiImageModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
