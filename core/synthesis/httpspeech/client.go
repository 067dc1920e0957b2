package httpspeech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/voxaide/voxaide-core/core/audio"
	"github.com/voxaide/voxaide-core/core/resilience"
	"github.com/voxaide/voxaide-core/core/synthesis"
)

// Client is a request/response speech synthesis wire client: one POST per
// utterance, audio in the body.
type Client struct {
	endpoint string
	apiKey   string
	voice    string
	encoding audio.EncodingInfo

	httpClient *http.Client
}

type ClientOption func(*Client)

// WithVoice sets the voice selector sent with every request.
func WithVoice(voice string) ClientOption {
	return func(c *Client) { c.voice = voice }
}

func WithEncodingInfo(encoding audio.EncodingInfo) ClientOption {
	return func(c *Client) {
		if !encoding.IsZero() {
			c.encoding = encoding
		}
	}
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
		encoding:   audio.GetDefaultEncodingInfo(),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type synthesizeResponse struct {
	Audio    string `json:"audio"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason"`
}

// Synthesize performs one synthesis attempt. The caller is expected to run
// it through resilience.Call; errors are shaped accordingly.
func (c *Client) Synthesize(ctx context.Context, text string) (synthesis.AudioHandle, error) {
	requestBody, err := json.Marshal(synthesizeRequest{Text: text, Voice: c.voice})
	if err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("error marshalling synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("error creating synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to read synthesis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return synthesis.AudioHandle{}, &resilience.StatusError{
			Status: resp.StatusCode,
			Detail: resilience.ErrorDetail(body),
		}
	}

	var parsed synthesizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to parse synthesis response: %w", err)
	}

	if parsed.Fallback {
		reason := parsed.Reason
		if reason == "" {
			reason = "synthesis service degraded"
		}
		return synthesis.AudioHandle{}, &resilience.FallbackError{Reason: reason}
	}

	decoded, err := base64.StdEncoding.DecodeString(parsed.Audio)
	if err != nil {
		return synthesis.AudioHandle{}, fmt.Errorf("failed to decode synthesis audio: %w", err)
	}

	return synthesis.AudioHandle{Audio: decoded, Encoding: c.encoding}, nil
}
