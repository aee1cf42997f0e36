// Package langserve implements [agentwire.Querier] against a LangServe-style
// agent backend: one endpoint for single-shot completion and one for
// streaming server-sent events.
package langserve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/fwojciec/agentwire"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ agentwire.Querier = (*Client)(nil)

const (
	defaultInvokePath = "/query"
	defaultStreamPath = "/query/stream"

	eventStreamMIME = "text/event-stream"
)

// Client implements [agentwire.Querier] over HTTP. Construct one per
// backend; there is no package-level shared instance.
type Client struct {
	baseURL    string
	invokePath string
	streamPath string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the diagnostic logger. Default is a no-op logger.
// Malformed stream records are reported here, not surfaced as errors.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithInvokePath overrides the single-shot endpoint path.
func WithInvokePath(path string) Option {
	return func(c *Client) { c.invokePath = path }
}

// WithStreamPath overrides the streaming endpoint path.
func WithStreamPath(path string) Option {
	return func(c *Client) { c.streamPath = path }
}

// New creates a new [Client] for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		invokePath: defaultInvokePath,
		streamPath: defaultStreamPath,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RunQuery performs a single-shot completion and returns the response text.
func (c *Client) RunQuery(ctx context.Context, q agentwire.Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("langserve: %w", err)
	}

	resp, err := c.post(ctx, c.invokePath, q)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseHTTPError(resp)
	}

	var envelope apiInvokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("langserve: malformed response: %w", err)
	}
	if envelope.Output == nil || envelope.Output.Content == nil {
		return "", fmt.Errorf("langserve: malformed response: missing output.content")
	}
	return *envelope.Output.Content, nil
}

// StreamQuery opens a streaming connection and returns a [agentwire.Stream]
// of incremental events. The caller must Close the stream on every path;
// Close is idempotent and tears down the connection.
func (c *Client) StreamQuery(ctx context.Context, q agentwire.Query) (agentwire.Stream, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("langserve: %w", err)
	}

	// The derived context outlives this call: cancelling it is how the
	// stream aborts the in-flight response body read.
	ctx, cancel := context.WithCancel(ctx)

	resp, err := c.postStream(ctx, c.streamPath, q)
	if err != nil {
		cancel()
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		defer cancel()
		return nil, parseHTTPError(resp)
	}

	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mt != eventStreamMIME {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("langserve: response is not an event stream (Content-Type %q)", resp.Header.Get("Content-Type"))
	}

	return newStream(cancel, resp.Body, c.logger), nil
}

func (c *Client) post(ctx context.Context, path string, q agentwire.Query) (*http.Response, error) {
	req, err := c.newRequest(ctx, path, q)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("langserve: %w", err)
	}
	return resp, nil
}

func (c *Client) postStream(ctx context.Context, path string, q agentwire.Query) (*http.Response, error) {
	req, err := c.newRequest(ctx, path, q)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", eventStreamMIME)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("langserve: %w", err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, path string, q agentwire.Query) (*http.Request, error) {
	body, err := json.Marshal(buildRequestBody(q))
	if err != nil {
		return nil, fmt.Errorf("langserve: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("langserve: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func buildRequestBody(q agentwire.Query) apiRequest {
	config := q.Config
	if config == nil {
		config = map[string]any{}
	}
	kwargs := q.Kwargs
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return apiRequest{
		Input:  apiInput{Prompt: q.Prompt},
		Config: config,
		Kwargs: kwargs,
	}
}

// parseHTTPError reads a structured error payload from a failed response,
// falling back to a status-code-derived message when the body is not a JSON
// object with a detail field.
func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("langserve: HTTP error! status: %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Detail == "" {
		return fmt.Errorf("langserve: HTTP error! status: %d", resp.StatusCode)
	}
	return fmt.Errorf("langserve: %s", apiErr.Detail)
}
