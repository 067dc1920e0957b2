package simplify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/voxaide/voxaide-core/core/resilience"
)

// Client rewrites text into plain language through a remote transform. The
// transform is never essential: every failure falls back to the original
// text so reading aloud always proceeds.
type Client struct {
	endpoint string
	apiKey   string

	policy     resilience.Policy
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithPolicy(policy resilience.Policy) ClientOption {
	return func(c *Client) { c.policy = policy }
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(endpoint, apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		policy:     resilience.SynthesisPolicy(),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type simplifyRequest struct {
	Text string `json:"text"`
}

type simplifyResponse struct {
	Simplified string `json:"simplified"`
	Fallback   bool   `json:"fallback"`
	Reason     string `json:"reason"`
}

// Simplify returns the plain-language rendition of text, or text unchanged
// when the transform is degraded or unconfigured. It never fails.
func (c *Client) Simplify(ctx context.Context, text string) string {
	ctx, span := tracer.Start(ctx, "simplify text")
	defer span.End()

	if c == nil || c.endpoint == "" {
		span.SetAttributes(attribute.String("simplify.outcome", "unconfigured"))
		return text
	}

	result, _ := resilience.Call(ctx, func(ctx context.Context) (string, error) {
		return c.transform(ctx, text)
	}, c.policy)

	if !result.Ok() {
		span.SetAttributes(attribute.String("simplify.outcome", "fallback"))
		return text
	}

	span.SetAttributes(attribute.String("simplify.outcome", "success"))
	return result.Value()
}

func (c *Client) transform(ctx context.Context, text string) (string, error) {
	requestBody, err := json.Marshal(simplifyRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("error marshalling simplify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating simplify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("simplify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read simplify response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &resilience.StatusError{
			Status: resp.StatusCode,
			Detail: resilience.ErrorDetail(body),
		}
	}

	var parsed simplifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse simplify response: %w", err)
	}
	if parsed.Fallback {
		return "", &resilience.FallbackError{Reason: parsed.Reason}
	}
	if parsed.Simplified == "" {
		return "", &resilience.FallbackError{Reason: "empty simplification"}
	}

	return parsed.Simplified, nil
}
