// Package tavily fetches search snippets from the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

const (
	defaultEndpoint = "https://api.tavily.com/search"
	defaultTimeout  = 12 * time.Second

	// maxFindings bounds how many snippets enrich a chat prompt.
	maxFindings = 5
)

// Client queries the Tavily search endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *zap.Logger
}

// New creates a search client with a bounded request timeout. An empty
// endpoint selects the public API.
func New(apiKey, endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

// searchResponse is the subset of the Tavily payload we read.
type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search returns up to five snippets for the query. Search is
// best-effort context enrichment: any transport or decode failure logs a
// warning and yields an empty result instead of an error.
func (c *Client) Search(ctx context.Context, query string) []domain.WebFinding {
	payload, err := c.fetch(ctx, query)
	if err != nil {
		c.logger.Warn("Web search failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	var findings []domain.WebFinding
	for _, item := range payload.Results {
		if len(findings) >= maxFindings {
			break
		}
		title := item.Title
		if title == "" {
			title = item.URL
		}
		if title == "" {
			title = "Result"
		}
		snippet := item.Content
		if snippet == "" {
			snippet = item.Snippet
		}
		findings = append(findings, domain.WebFinding{
			Title:   title,
			URL:     item.URL,
			Snippet: snippet,
		})
	}
	return findings
}

func (c *Client) fetch(ctx context.Context, query string) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: "advanced",
		MaxResults:  maxFindings,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &payload, nil
}
