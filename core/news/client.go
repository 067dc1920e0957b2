package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/voxaide/voxaide-core/core/resilience"
)

const defaultEndpoint = "https://newsapi.org/v2/top-headlines"

// MaxArticles caps the list read back to the user. More headlines than this
// are unusable in a voice dialogue.
const MaxArticles = 5

// Client fetches headlines from the content provider. The credential is
// essential: fetching without one surfaces a ConfigurationError once and
// halts only news features.
type Client struct {
	endpoint string
	apiKey   string
	country  string

	policy     resilience.Policy
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithCountry(country string) ClientOption {
	return func(c *Client) { c.country = country }
}

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

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		country:    "us",
		policy:     resilience.ContentPolicy("news"),
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type headlinesResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// TopHeadlines fetches the current cleaned article list through the
// resilience layer. The error is non-nil only for the missing-credential
// hard case; every transient failure degrades to a fallback result.
func (c *Client) TopHeadlines(ctx context.Context) (resilience.Result[[]Article], error) {
	ctx, span := tracer.Start(ctx, "fetch top headlines")
	defer span.End()

	if c.apiKey == "" {
		return resilience.Fallback[[]Article]("news credential absent"), &resilience.ConfigurationError{
			Feature: "news",
			Reason:  "content provider api key not configured",
		}
	}

	result, err := resilience.Call(ctx, c.fetch, c.policy)
	if result.Ok() {
		span.SetAttributes(attribute.Int("news.articles", len(result.Value())))
	}
	return result, err
}

func (c *Client) fetch(ctx context.Context) ([]Article, error) {
	requestURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid news endpoint: %w", err)
	}
	queryParams := requestURL.Query()
	queryParams.Set("country", c.country)
	queryParams.Set("pageSize", "20")
	requestURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating news request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read news response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &resilience.StatusError{
			Status: resp.StatusCode,
			Detail: resilience.ErrorDetail(body),
		}
	}

	var parsed headlinesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	articles := make([]Article, 0, MaxArticles)
	for _, entry := range parsed.Articles {
		if !usable(entry.Title, entry.Description) {
			continue
		}
		articles = append(articles, Article{
			Title:       CleanText(entry.Title),
			Description: CleanText(entry.Description),
			URL:         entry.URL,
			Source:      entry.Source.Name,
			PublishedAt: entry.PublishedAt,
			FullContent: CleanText(entry.Content),
		})
		if len(articles) == MaxArticles {
			break
		}
	}

	return articles, nil
}
