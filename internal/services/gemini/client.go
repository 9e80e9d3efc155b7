package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gazette/internal/services"
)

const defaultHTTPTimeout = 60 * time.Second

// promptTemplate mirrors the Pollinations backend's instruction but leaves
// the length open; Gemini is reliably concise without the hard cap.
const promptTemplate = `Create a detailed and vivid image generation prompt for a news article.

Title: %s
Summary: %s

The prompt should describe a realistic, high-quality image suitable for a news website.
Focus on the visual elements, mood, and key subjects.
Do not include text in the image unless absolutely necessary.
Output ONLY the prompt text.`

// Config captures the runtime settings for the Gemini REST backend.
type Config struct {
	APIKey         string
	BaseURL        string
	TextModel      string
	ImageModel     string
	TimeoutSeconds int
}

// Client wraps the Gemini generateContent and Imagen predict REST endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      services.RetryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the image request retry schedule.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// NewClient constructs a Gemini client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		retry:      services.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return client
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int `json:"sampleCount"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Describe asks the text model for an image prompt describing the article.
func (c *Client) Describe(ctx context.Context, title, summary string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "gemini", "describe", "api key required", nil)
	}
	if strings.TrimSpace(title) == "" {
		return "", services.Wrap(services.ErrValidation, "gemini", "describe", "title required", nil)
	}

	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, title, summary)}}}},
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.TextModel)

	var decoded generateContentResponse
	if err := c.post(ctx, endpoint, payload, &decoded); err != nil {
		return "", services.Wrap(services.ErrExternalService, "gemini", "describe", "", err)
	}
	if decoded.Error != nil {
		return "", services.Wrap(services.ErrExternalService, "gemini", "describe", decoded.Error.Message, nil)
	}
	for _, candidate := range decoded.Candidates {
		for _, p := range candidate.Content.Parts {
			if prompt := strings.TrimSpace(p.Text); prompt != "" {
				return prompt, nil
			}
		}
	}
	return "", services.Wrap(services.ErrExternalService, "gemini", "describe", "empty response", nil)
}

// Generate produces image bytes for the prompt via the Imagen predict
// endpoint, retrying per the policy.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "generate", "api key required", nil)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "gemini", "generate", "prompt required", nil)
	}

	payload := predictRequest{
		Instances:  []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{SampleCount: 1},
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:predict", c.cfg.BaseURL, c.cfg.ImageModel)

	var image []byte
	err := c.retry.Do(ctx, "gemini generate", func(ctx context.Context) error {
		var decoded predictResponse
		if err := c.post(ctx, endpoint, payload, &decoded); err != nil {
			return err
		}
		if decoded.Error != nil {
			return fmt.Errorf("api error: %s", decoded.Error.Message)
		}
		if len(decoded.Predictions) == 0 {
			return errors.New("no predictions returned")
		}
		data, err := base64.StdEncoding.DecodeString(decoded.Predictions[0].BytesBase64Encoded)
		if err != nil {
			return fmt.Errorf("decode image payload: %w", err)
		}
		if len(data) == 0 {
			return errors.New("empty image payload")
		}
		image = data
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "gemini", "generate", "", err)
	}
	return image, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, target any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, summarizeBody(body))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func summarizeBody(body []byte) string {
	text := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}
