// Package gemini talks to the Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Cap on how much of an upstream error body is kept around.
const maxErrorBodyBytes = 4 << 10

// Content is one role-tagged turn in the upstream conversation.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a single content segment. Only text parts are produced here;
// non-text parts come back with an empty Text and are skipped on read.
type Part struct {
	Text string `json:"text,omitempty"`
}

// GenerationConfig carries the server-controlled sampling parameters.
// Callers supply content only; these are never caller-controllable.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Candidate is one generated completion.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// GenerateContentResponse is the upstream envelope. The API's shape is not
// ours to control: every level may be absent under content filtering or
// error conditions, so everything is optional.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates,omitempty"`
}

// APIError is a non-2xx answer from the upstream API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: upstream returned %d: %s", e.StatusCode, e.Body)
}

// ClientConfig holds the fixed parameters read once at startup.
type ClientConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int
	Temperature     float64
	Timeout         time.Duration
	BaseURL         string // defaults to the Google endpoint; tests override
}

// Client issues generateContent calls for a single model.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	genCfg  GenerationConfig
	timeout time.Duration
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		genCfg: GenerationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		timeout: cfg.Timeout,
		http:    &http.Client{},
		logger:  logger,
	}
}

// GenerateContent posts the assembled turns and returns the raw envelope.
// Non-2xx answers surface as *APIError; timeouts, connection failures and
// unparseable bodies surface as plain wrapped errors. No retries: a blind
// retry against a metered API risks cost amplification.
func (c *Client) GenerateContent(ctx context.Context, contents []Content) (*GenerateContentResponse, error) {
	body, err := json.Marshal(generateContentRequest{
		Contents:         contents,
		GenerationConfig: c.genCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Server-to-server API key. Never logged, never echoed downstream.
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call upstream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Error().Int("status", resp.StatusCode).Msg("upstream request failed")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return &out, nil
}
