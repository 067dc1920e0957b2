package httpclassifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/voxaide/voxaide-core/core/intent"
	"github.com/voxaide/voxaide-core/core/resilience"
)

// Client is the remote classification tier: it ships the utterance together
// with the enumerated label set and the active context to a language
// service and expects one structured classification back. The dialogue
// treats any failure as a miss, so this client reports errors freely.
type Client struct {
	endpoint string
	apiKey   string
	model    string

	httpClient *http.Client
}

type ClientOption func(*Client)

// WithModel selects the service-side model when the endpoint hosts several.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient builds the remote tier. A missing credential is a
// construction-time failure so callers wire a nil remote tier exactly once
// instead of checking at every classification.
func NewClient(endpoint, apiKey string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("classification endpoint not configured")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("classification api key not configured")
	}

	client := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// classification is the structured answer requested from the service; its
// schema is reflected and sent with every request.
type classification struct {
	Label     string `json:"label" jsonschema:"title=Label,description=The resolved label; must be one of the provided labels"`
	Parameter string `json:"parameter,omitempty" jsonschema:"title=Parameter,description=Optional argument such as an article identifier"`
}

type classifyRequest struct {
	Utterance      string            `json:"utterance"`
	Labels         []string          `json:"labels"`
	Context        string            `json:"context"`
	Model          string            `json:"model,omitempty"`
	ResponseSchema jsonschema.Schema `json:"response_schema"`
}

func (c *Client) Classify(ctx context.Context, utterance string, dialogueContext intent.Context) (intent.Label, error) {
	ctx, span := tracer.Start(ctx, "classify remotely")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.context", dialogueContext.ID),
		attribute.StringSlice("request.labels", dialogueContext.Labels),
	)

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(classification{})

	requestBody, err := json.Marshal(classifyRequest{
		Utterance:      utterance,
		Labels:         slices.Clone(dialogueContext.Labels),
		Context:        dialogueContext.ID,
		Model:          c.model,
		ResponseSchema: *schema,
	})
	if err != nil {
		return intent.Label{}, fmt.Errorf("error marshalling classification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return intent.Label{}, fmt.Errorf("error creating classification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return intent.Label{}, fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return intent.Label{}, fmt.Errorf("failed to read classification response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return intent.Label{}, &resilience.StatusError{
			Status: resp.StatusCode,
			Detail: resilience.ErrorDetail(body),
		}
	}

	var parsed classification
	if err := json.Unmarshal(body, &parsed); err != nil {
		return intent.Label{}, fmt.Errorf("failed to parse classification response: %w", err)
	}
	if parsed.Label == "" {
		return intent.Label{}, fmt.Errorf("classification response carried no label")
	}

	span.SetAttributes(attribute.String("response.label", parsed.Label))
	return intent.Label{Name: parsed.Label, Parameter: parsed.Parameter}, nil
}
