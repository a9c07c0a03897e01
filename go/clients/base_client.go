package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mcdev12/leagueconsole/go/internal/models"
)

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status code: %d, response: %s", e.StatusCode, e.Body)
}

// RequestOption customizes a single outgoing request.
type RequestOption func(req *http.Request)

// WithBasicAuth sets the Authorization header from creds. A nil creds leaves
// the request unauthenticated.
func WithBasicAuth(creds *models.AdminCredentials) RequestOption {
	return func(req *http.Request) {
		if creds == nil {
			return
		}
		req.Header.Set("Authorization", creds.BasicAuthorization())
	}
}

// WithContentType sets the Content-Type header.
func WithContentType(contentType string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Content-Type", contentType)
	}
}

type BaseClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// BaseURL returns the backend root every endpoint is resolved against.
func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader, opts ...RequestOption) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return responseBody, nil
}

func (c *BaseClient) Get(ctx context.Context, endpoint string, opts ...RequestOption) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodGet, endpoint, nil, opts...)
}

func (c *BaseClient) Post(ctx context.Context, endpoint string, body io.Reader, opts ...RequestOption) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodPost, endpoint, body, opts...)
}

func (c *BaseClient) Put(ctx context.Context, endpoint string, body io.Reader, opts ...RequestOption) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodPut, endpoint, body, opts...)
}

// SendJSON marshals payload as the request body and decodes the response
// into out. A nil out discards the response body.
func (c *BaseClient) SendJSON(ctx context.Context, method, endpoint string, payload, out interface{}, opts ...RequestOption) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	opts = append([]RequestOption{WithContentType("application/json")}, opts...)
	body, err := c.MakeRequest(ctx, method, endpoint, bytes.NewReader(data), opts...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return nil
}
