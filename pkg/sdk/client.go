// Package careerchat provides a Go client for the careerchat HTTP API.
//
//	client := careerchat.New("http://localhost:8000", careerchat.WithAPIKey("secret"))
//	reply, _ := client.Generate(ctx, careerchat.GenerateRequest{
//	    Input: "Recommend me a backend role",
//	})
package careerchat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 120 * time.Second

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return optionFunc(func(c *Client) {
		c.httpClient = httpClient
	})
}

// Client is the careerchat SDK entry point.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// APIError is a non-2xx response from the service.
// Use errors.As() to inspect the code.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("careerchat: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("careerchat: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("careerchat: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("careerchat: decode response: %w", err)
	}
	return nil
}

// HealthReport is the GET /health response.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports service health. A degraded service returns an *APIError
// with status 503.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var report HealthReport
	err := c.do(ctx, http.MethodGet, "/health", nil, "", &report)
	return report, err
}

// HistoryEntry is one conversation turn.
type HistoryEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Intent    string `json:"intent"`
	Timestamp string `json:"timestamp"`
}

// History returns up to limit recent turns in chronological order.
// limit<=0 uses the server default.
func (c *Client) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	path := "/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []HistoryEntry
	if err := c.do(ctx, http.MethodGet, path, nil, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GenerateRequest is the POST /generate form payload.
type GenerateRequest struct {
	Input            string
	WebSearch        bool
	PersistDocuments bool

	// FileName/FileContent attach an optional plain-text document.
	FileName    string
	FileContent string
}

// Source points a reply at a retrieved document.
type Source struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

// GenerateResponse is the POST /generate reply.
type GenerateResponse struct {
	Intent    string   `json:"intent"`
	Text      string   `json:"text"`
	Sources   []Source `json:"sources"`
	ToolCalls []string `json:"tool_calls"`
}

// Generate runs one conversation turn.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"input":             req.Input,
		"web_search":        strconv.FormatBool(req.WebSearch),
		"persist_documents": strconv.FormatBool(req.PersistDocuments),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return GenerateResponse{}, fmt.Errorf("careerchat: build form: %w", err)
		}
	}
	if req.FileContent != "" {
		name := req.FileName
		if name == "" {
			name = "document.txt"
		}
		fw, err := mw.CreateFormFile("file", name)
		if err != nil {
			return GenerateResponse{}, fmt.Errorf("careerchat: build form: %w", err)
		}
		if _, err := io.WriteString(fw, req.FileContent); err != nil {
			return GenerateResponse{}, fmt.Errorf("careerchat: build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return GenerateResponse{}, fmt.Errorf("careerchat: build form: %w", err)
	}

	var resp GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/generate", &buf, mw.FormDataContentType(), &resp); err != nil {
		return GenerateResponse{}, err
	}
	return resp, nil
}

// IndexJobRequest is the POST /jobs body.
type IndexJobRequest struct {
	Text     string            `json:"text"`
	Title    string            `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IndexJobResponse reports what POST /jobs persisted.
type IndexJobResponse struct {
	Inserted int      `json:"inserted"`
	IDs      []string `json:"ids"`
}

// IndexJob adds a job posting to the retrieval index permanently.
func (c *Client) IndexJob(ctx context.Context, req IndexJobRequest) (IndexJobResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return IndexJobResponse{}, fmt.Errorf("careerchat: encode request: %w", err)
	}
	var resp IndexJobResponse
	if err := c.do(ctx, http.MethodPost, "/jobs", bytes.NewReader(body), "application/json", &resp); err != nil {
		return IndexJobResponse{}, err
	}
	return resp, nil
}
