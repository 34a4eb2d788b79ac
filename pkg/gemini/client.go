// Package gemini implements a thin REST client for the Gemini
// generateContent endpoint, cycling through a pool of API keys so a
// rate-limited or revoked credential does not take the feature down.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajdelacruz/saristore-backend/pkg/config"
	pkgerrors "github.com/ajdelacruz/saristore-backend/pkg/errors"
	"github.com/ajdelacruz/saristore-backend/pkg/secrets"
)

const (
	defaultBaseURL           = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel             = "gemini-1.5-flash"
	errorBodyReadLimit int64 = 1024
)

// Client calls the Gemini REST API with round-robin key rotation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	keys       secrets.Provider
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a Gemini client from config and a key provider.
func NewClient(cfg config.GeminiConfig, keys secrets.Provider, opts ...Option) (*Client, error) {
	if keys == nil || keys.Size() == 0 {
		return nil, secrets.ErrNoKeys
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		keys:       keys,
	}
	if trimmed := strings.TrimSpace(cfg.BaseURL); trimmed != "" {
		client.baseURL = trimmed
	}
	if trimmed := strings.TrimSpace(cfg.Model); trimmed != "" {
		client.model = trimmed
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the prompt and returns the first candidate's text.
// Failed calls retry with the next key in the pool.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini client not configured")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal generate request")
	}

	// Every key in the pool gets one shot before the prompt is given up.
	attempts := c.keys.Size()

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		key, _, err := c.keys.Next()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire gemini api key")
		}

		text, err := c.generateOnce(ctx, key, payload)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "gemini request canceled")
		}
		lastErr = err
	}

	return "", pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "all gemini api keys exhausted")
}

func (c *Client) generateOnce(ctx context.Context, apiKey string, payload []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.model), url.QueryEscape(apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("execute generate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var apiResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidate list")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
