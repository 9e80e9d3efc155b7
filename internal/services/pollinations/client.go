package pollinations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gazette/internal/services"
)

const defaultHTTPTimeout = 30 * time.Second

// promptTemplate asks the text endpoint for a short image-generation prompt.
// The 300 character target is a design constraint on the output, not
// something the client enforces.
const promptTemplate = `Create a detailed and vivid image generation prompt for a news article.

Title: %s
Summary: %s

The prompt should describe a realistic, high-quality image suitable for a news website.
Focus on the visual elements, mood, and key subjects.
Do not include text in the image.
Keep the prompt UNDER 300 CHARACTERS.
Output ONLY the prompt text.`

// Config captures the runtime settings for the Pollinations endpoints.
type Config struct {
	TextBaseURL    string
	ImageBaseURL   string
	Model          string
	Width          int
	Height         int
	TimeoutSeconds int
}

// Client talks to the keyless Pollinations text and image endpoints. Image
// requests follow the supplied retry policy; prompt requests are single-shot
// because a failed prompt only skips one record.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      services.RetryPolicy
	seed       func() int
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

// WithSeedSource overrides the random seed generator (useful for tests).
func WithSeedSource(seed func() int) Option {
	return func(c *Client) {
		c.seed = seed
	}
}

// NewClient constructs a Pollinations client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		retry:      services.DefaultRetryPolicy(),
		seed:       func() int { return rand.Intn(10000) },
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.TextBaseURL == "" {
		client.cfg.TextBaseURL = "https://text.pollinations.ai"
	}
	if client.cfg.ImageBaseURL == "" {
		client.cfg.ImageBaseURL = "https://image.pollinations.ai"
	}
	if client.cfg.Width <= 0 {
		client.cfg.Width = 1024
	}
	if client.cfg.Height <= 0 {
		client.cfg.Height = 1024
	}
	return client
}

// Describe asks the text endpoint for an image prompt describing the article.
func (c *Client) Describe(ctx context.Context, title, summary string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", services.Wrap(services.ErrValidation, "pollinations", "describe", "title required", nil)
	}
	request := fmt.Sprintf(promptTemplate, title, summary)
	endpoint := c.cfg.TextBaseURL + "/" + url.PathEscape(request)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "pollinations", "describe", "", err)
	}
	prompt := strings.TrimSpace(string(body))
	if prompt == "" {
		return "", services.Wrap(services.ErrExternalService, "pollinations", "describe", "empty prompt", nil)
	}
	return prompt, nil
}

// Generate fetches image bytes for the prompt, retrying per the policy. A
// fresh random seed per attempt keeps results varied.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, services.Wrap(services.ErrValidation, "pollinations", "generate", "prompt required", nil)
	}

	var image []byte
	err := c.retry.Do(ctx, "pollinations generate", func(ctx context.Context) error {
		query := url.Values{}
		query.Set("seed", strconv.Itoa(c.seed()))
		query.Set("width", strconv.Itoa(c.cfg.Width))
		query.Set("height", strconv.Itoa(c.cfg.Height))
		query.Set("nologo", "true")
		if c.cfg.Model != "" {
			query.Set("model", c.cfg.Model)
		}
		endpoint := c.cfg.ImageBaseURL + "/prompt/" + url.PathEscape(prompt) + "?" + query.Encode()

		body, err := c.get(ctx, endpoint)
		if err != nil {
			return err
		}
		if len(body) == 0 {
			return errors.New("empty image body")
		}
		image = body
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "pollinations", "generate", "", err)
	}
	return image, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, summarizeBody(body))
	}
	return body, nil
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
