// Package ai wraps the OpenAI-compatible chat completion endpoint that
// produces the raw analysis documents. The client is constructed explicitly
// and injected where needed; there are no package-level singletons.
package ai

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

	"github.com/sirupsen/logrus"

	"github.com/finsight/market-analysis-go/internal/analysis"
	"github.com/finsight/market-analysis-go/internal/config"
)

// Client talks to an OpenAI-compatible chat completion API. When an API
// version is configured it speaks the Azure dialect (deployment path,
// api-key header, api-version query parameter), otherwise the plain OpenAI
// wire format with a bearer token.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	deployment  string
	apiVersion  string
	maxTokens   int
	temperature float64
	logger      *logrus.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates an AI client from configuration. The endpoint may be an
// AI Foundry project endpoint; anything after /api/projects/ is stripped to
// recover the OpenAI base URL.
func NewClient(cfg *config.AIConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     normalizeEndpoint(cfg.Endpoint),
		apiKey:      cfg.APIKey,
		deployment:  cfg.Deployment,
		apiVersion:  cfg.APIVersion,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if i := strings.Index(endpoint, "/api/projects/"); i >= 0 {
		return endpoint[:i] + "/openai"
	}
	return endpoint
}

// Configured reports whether the client has an endpoint to call. An
// unconfigured client fails fast and lets the caller substitute defaults.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Close releases idle connections. The client must not be used afterwards.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Complete sends one system+user exchange and returns the assistant reply
// text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("ai endpoint is not configured")
	}

	reqBody := chatRequest{
		Model: c.deployment,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionURL(), bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiVersion != "" {
		req.Header.Set("api-key", c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("failed to close response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if chatResp.Error != nil {
			return "", fmt.Errorf("ai service error (%d): %s", resp.StatusCode, chatResp.Error.Message)
		}
		return "", fmt.Errorf("ai service error (%d): %s", resp.StatusCode, string(respBody))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("ai service returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) completionURL() string {
	if c.apiVersion != "" {
		return fmt.Sprintf("%s/deployments/%s/chat/completions?api-version=%s",
			c.baseURL, url.PathEscape(c.deployment), url.QueryEscape(c.apiVersion))
	}
	return c.baseURL + "/chat/completions"
}

// GenerateAnalysis produces one raw analysis document for the symbol and
// kind. It implements analysis.Generator.
func (c *Client) GenerateAnalysis(ctx context.Context, symbol string, kind analysis.Kind) (string, error) {
	system, user, err := analysisPrompts(symbol, kind)
	if err != nil {
		return "", err
	}

	start := time.Now()
	document, err := c.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	c.logger.WithFields(logrus.Fields{
		"symbol":   symbol,
		"kind":     kind,
		"duration": time.Since(start).String(),
		"length":   len(document),
	}).Info("analysis document generated")

	return document, nil
}
