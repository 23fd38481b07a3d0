// Package ollama is a minimal client for the Ollama generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to a single Ollama server and model.
type Client struct {
	baseURL    string
	model      string
	httpClient HTTPDoer
}

// New creates a client for the given base URL and model name. The URL
// is validated lazily on the first request so a misconfigured setting
// surfaces as a classified failure, not a construction error.
func New(baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

// Generate sends prompt to {base}/api/generate and returns the reply
// text. All failures come back as *Error with a user-facing message.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint, err := c.endpointURL()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", &Error{Kind: KindInvalidResponse, Message: "failed to encode request", cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", badURLError(c.baseURL)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	var result generateResponse
	parseErr := json.Unmarshal(respBody, &result)

	// A reported error wins regardless of HTTP status.
	if parseErr == nil && result.Error != nil {
		return "", upstreamError(*result.Error)
	}

	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp.StatusCode, string(respBody))
	}

	if parseErr != nil {
		return "", invalidResponseError(string(respBody))
	}

	if result.Response == nil {
		return "", missingResponseError(string(respBody))
	}

	return *result.Response, nil
}

// endpointURL validates the configured base URL and appends the
// generate path. A malformed URL fails before any request is sent.
func (c *Client) endpointURL() (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.baseURL), "/")
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", badURLError(c.baseURL)
	}
	return base + "/api/generate", nil
}
