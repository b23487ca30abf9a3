// Package ai implements the Gemini-backed scoring and tailoring stages.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNotConfigured is returned when no API key is set. Pipeline entry points
// check this before any job record is created.
var ErrNotConfigured = errors.New("GOOGLE_API_KEY not configured")

// APIError is a non-2xx answer from the model endpoint.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini api: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini api: %d: %s", e.StatusCode, e.Message)
}

// Config wires a Client. Zero values fall back to defaults; BaseURL is
// overridable so tests can point at a local server.
type Config struct {
	APIKey            string
	Model             string
	BaseURL           string
	RequestsPerMinute int
	HTTPClient        *http.Client
	Retrier           *Retrier
	Logger            *zap.Logger
}

// Client talks to the Gemini REST API, rate limited and retried.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retrier *Retrier
	log     *zap.Logger
}

func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		http:    cfg.HTTPClient,
		retrier: cfg.Retrier,
		log:     cfg.Logger,
	}
	if c.model == "" {
		c.model = "gemini-3-flash-preview"
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 90 * time.Second}
	}
	if c.retrier == nil {
		c.retrier = NewRetrier()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.retrier.log = c.log
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}
	c.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// GenerateConfig holds per-call generation settings.
type GenerateConfig struct {
	Temperature float64
	JSONOutput  bool
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate runs one prompt through the model and returns the generated text.
// Rate-limit and unavailability answers are retried with backoff; every other
// failure comes back unchanged so callers see the real cause.
func (c *Client) Generate(ctx context.Context, prompt string, gen GenerateConfig) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.retrier.Do(ctx, func(ctx context.Context) (string, error) {
		return c.generateOnce(ctx, prompt, gen)
	})
}

func (c *Client) generateOnce(ctx context.Context, prompt string, gen GenerateConfig) (string, error) {
	body := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: gen.Temperature},
	}
	if gen.JSONOutput {
		body.GenerationConfig.ResponseMIMEType = "application/json"
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var env errorEnvelope
		if jerr := json.Unmarshal(raw, &env); jerr == nil && env.Error.Message != "" {
			apiErr.Status = env.Error.Status
			apiErr.Message = env.Error.Message
		}
		return "", apiErr
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	var b strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}
