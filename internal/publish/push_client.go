package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/httputil"
)

// DefaultTimeout bounds one push request.
const DefaultTimeout = 15 * time.Second

// PushClient delivers payloads to the configured endpoint.
type PushClient struct {
	url    string
	token  string
	client *http.Client
}

// PushOption configures PushClient.
type PushOption func(*PushClient)

// WithToken sets the bearer credential. An empty token omits the header.
func WithToken(token string) PushOption {
	return func(c *PushClient) {
		c.token = token
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) PushOption {
	return func(c *PushClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) PushOption {
	return func(c *PushClient) {
		if d > 0 {
			cl := *c.client
			cl.Timeout = d
			c.client = &cl
		}
	}
}

// NewPushClient creates a client for url.
func NewPushClient(url string, opts ...PushOption) (*PushClient, error) {
	if url == "" {
		return nil, ErrMissingPushURL
	}
	c := &PushClient{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Push POSTs payload as JSON. requestID, when set, is sent as X-Request-Id.
func (c *PushClient) Push(ctx context.Context, payload domain.IdeasPayload, requestID string) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	body, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &PushError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &PushError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PushError{
			Status: resp.StatusCode,
			Body:   httputil.ReadErrorBody(resp.Body),
			Err:    fmt.Errorf("http status %d", resp.StatusCode),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
