package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Package apiclient provides a uniform JSON call surface against one backend:
// a base URL plus default headers fixed at construction, and Get/Post
// operations that return the response body and propagate failures unchanged.

const defaultTimeout = 15 * time.Second

// Config holds the immutable client configuration. It is copied at
// construction; mutating it afterwards has no effect on the client.
type Config struct {
	BaseURL        string
	DefaultHeaders map[string]string
	Timeout        time.Duration
}

// Client issues GET/POST requests against a single backend. It keeps no
// mutable state between calls, so concurrent use is safe.
type Client struct {
	client *resty.Client
}

// New builds a Client from the given configuration.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := resty.New()
	c.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	c.SetTimeout(timeout)
	for k, v := range cfg.DefaultHeaders {
		if k = strings.TrimSpace(k); k != "" {
			c.SetHeader(k, v)
		}
	}
	return &Client{client: c}
}

// Get issues an HTTP GET to baseURL+endpoint and returns the raw JSON body.
// Transport errors are returned unchanged; non-2xx responses become a
// *StatusError carrying the status code and body. No retries.
func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	resp, err := c.client.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, err
	}
	return unwrap(resp)
}

// Post serializes body as JSON and issues an HTTP POST to baseURL+endpoint
// with Content-Type: application/json. Same failure semantics as Get.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return nil, err
	}
	return unwrap(resp)
}

// GetJSON performs Get and unmarshals the body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	raw, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// PostJSON performs Post and unmarshals the body into out. A nil out discards
// the response body.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body, out any) error {
	raw, err := c.Post(ctx, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// BaseURL reports the base URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.client.BaseURL
}

func unwrap(resp *resty.Response) (json.RawMessage, error) {
	if resp.IsError() {
		return nil, &StatusError{
			StatusCode: resp.StatusCode(),
			Body:       append([]byte(nil), resp.Body()...),
		}
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, nil
	}
	return append(json.RawMessage(nil), body...), nil
}

// StatusError is returned for non-2xx responses. The client performs no
// classification beyond carrying the raw status and body to the caller.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http response status %d: %s", e.StatusCode, bodySnippet(e.Body))
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
