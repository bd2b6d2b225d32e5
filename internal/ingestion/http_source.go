package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/httputil"
)

// Default transport settings.
const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "ideas-pusher/1.0"

	maxResponseBody = 64 << 20
)

// HTTPSource fetches a ticker array with one GET request.
type HTTPSource struct {
	name   string
	url    string
	unwrap []string
	client *http.Client
}

// HTTPOption configures HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			c := *s.client
			c.Timeout = d
			s.client = &c
		}
	}
}

// NewHTTPSource creates a source for url. unwrap lists the dotted paths
// tried when the body is an object rather than a bare array.
func NewHTTPSource(name, url string, unwrap []string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		name:   name,
		url:    url,
		unwrap: unwrap,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements TickerSource.
func (s *HTTPSource) Name() string { return s.name }

// Fetch implements TickerSource.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.RawTicker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: fmt.Errorf("http GET: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SourceFetchError{
			Source: s.name,
			Status: resp.StatusCode,
			Body:   httputil.ReadErrorBody(resp.Body),
			Err:    fmt.Errorf("http status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: fmt.Errorf("read body: %w", err)}
	}

	tickers, err := decodeTickers(body, s.unwrap)
	if err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: err}
	}
	return tickers, nil
}
