// Package convex is a small client for the Convex HTTP function API.
//
// Functions are addressed as "<module>:<export>", e.g. "users:getUser".
package convex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	deployKey  string
	httpClient *http.Client
}

type Config struct {
	URL        string
	DeployKey  string // optional admin key, sent as "Authorization: Convex <key>"
	HTTPClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("convex: URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		deployKey:  cfg.DeployKey,
		httpClient: httpClient,
	}, nil
}

// FunctionError is returned when the deployment ran the function and it threw.
type FunctionError struct {
	Path    string
	Message string
	Data    json.RawMessage
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("convex %s: %s", e.Path, e.Message)
}

type request struct {
	Path   string `json:"path"`
	Args   any    `json:"args"`
	Format string `json:"format"`
}

type response struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage"`
	ErrorData    json.RawMessage `json:"errorData"`
}

// Query runs a read-only function and decodes its value into out.
func (c *Client) Query(ctx context.Context, path string, args, out any) error {
	return c.call(ctx, "query", path, args, out)
}

// Mutation runs a transactional write function and decodes its value into out.
func (c *Client) Mutation(ctx context.Context, path string, args, out any) error {
	return c.call(ctx, "mutation", path, args, out)
}

func (c *Client) call(ctx context.Context, kind, path string, args, out any) error {
	if args == nil {
		args = struct{}{}
	}
	body, err := json.Marshal(request{Path: path, Args: args, Format: "json"})
	if err != nil {
		return fmt.Errorf("marshal args: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+kind, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.deployKey != "" {
		req.Header.Set("Authorization", "Convex "+c.deployKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("convex %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		if resp.StatusCode >= 300 {
			return fmt.Errorf("convex %s: http %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if r.Status == "error" {
		return &FunctionError{Path: path, Message: r.ErrorMessage, Data: r.ErrorData}
	}
	if resp.StatusCode >= 300 || r.Status != "success" {
		return fmt.Errorf("convex %s: http %d status %q", path, resp.StatusCode, r.Status)
	}

	if out == nil || len(r.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Value, out); err != nil {
		return fmt.Errorf("decode %s value: %w", path, err)
	}
	return nil
}
