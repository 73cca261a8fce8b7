package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/utils/safe"
)

// maxResponseSize bounds the response body read from the endpoint
const maxResponseSize = 1 << 20

// ErrUnexpectedStatus is returned for non-2xx responses
var ErrUnexpectedStatus = goerr.New("unexpected status code from completion endpoint")

// Client implements interfaces.CompletionClient over a plain HTTP
// text-completion endpoint. The request body is {"messages": [...]} and the
// response body is {"completion": "..."}.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

var _ interfaces.CompletionClient = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// New creates a completion client posting to endpoint
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, goerr.New("completion endpoint is required")
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type request struct {
	Messages []model.Message `json:"messages"`
}

type response struct {
	Completion *string `json:"completion"`
}

// Complete performs a single POST. No retry is attempted.
func (c *Client) Complete(ctx context.Context, messages []model.Message) (string, error) {
	body, err := json.Marshal(request{Messages: messages})
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create completion request", goerr.V("endpoint", c.endpoint))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to send completion request", goerr.V("endpoint", c.endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", goerr.Wrap(err, "failed to read completion response", goerr.V("endpoint", c.endpoint))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", goerr.Wrap(ErrUnexpectedStatus, "completion request failed",
			goerr.V("endpoint", c.endpoint),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)))
	}

	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return "", goerr.Wrap(err, "failed to decode completion response", goerr.V("body", string(data)))
	}
	if out.Completion == nil {
		return "", goerr.New("completion field is missing", goerr.V("body", string(data)))
	}

	return *out.Completion, nil
}
