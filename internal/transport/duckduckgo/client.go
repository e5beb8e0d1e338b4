// Package duckduckgo fetches lightweight search snippets from the
// DuckDuckGo instant-answer API.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

const (
	defaultBaseURL = "https://duckduckgo.com/"
	defaultTimeout = 6 * time.Second

	// maxFindings bounds how many snippets enrich a chat prompt.
	maxFindings = 5

	relatedTitleLimit = 120
)

// Client queries the instant-answer endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// New creates a search client with a bounded request timeout.
func New(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
}

// apiResponse is the subset of the instant-answer payload we read.
type apiResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
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
	if payload.AbstractText != "" {
		title := payload.Heading
		if title == "" {
			title = "DuckDuckGo"
		}
		findings = append(findings, domain.WebFinding{
			Title:   title,
			URL:     payload.AbstractURL,
			Snippet: payload.AbstractText,
		})
	}

	for _, item := range payload.RelatedTopics {
		if len(findings) >= maxFindings {
			break
		}
		if item.Text == "" {
			continue
		}
		title := item.Text
		if len(title) > relatedTitleLimit {
			title = title[:relatedTitleLimit]
		}
		findings = append(findings, domain.WebFinding{
			Title:   title,
			URL:     item.FirstURL,
			Snippet: item.Text,
		})
	}
	return findings
}

func (c *Client) fetch(ctx context.Context, query string) (*apiResponse, error) {
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_redirect":   {"1"},
		"skip_disambig": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &payload, nil
}
