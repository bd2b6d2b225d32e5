package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/httputil"
)

// StreamSource reads a single snapshot frame from a websocket ticker stream,
// such as Binance's !ticker@arr, and disconnects.
type StreamSource struct {
	name        string
	url         string
	unwrap      []string
	dialer      websocket.Dialer
	readTimeout time.Duration
}

// StreamOption configures StreamSource.
type StreamOption func(*StreamSource)

// WithReadTimeout bounds the handshake and the wait for the first frame.
func WithReadTimeout(d time.Duration) StreamOption {
	return func(s *StreamSource) {
		if d > 0 {
			s.readTimeout = d
			s.dialer.HandshakeTimeout = d
		}
	}
}

// NewStreamSource creates a websocket snapshot source.
func NewStreamSource(name, url string, unwrap []string, opts ...StreamOption) *StreamSource {
	s := &StreamSource{
		name:        name,
		url:         url,
		unwrap:      unwrap,
		dialer:      websocket.Dialer{HandshakeTimeout: DefaultTimeout},
		readTimeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements TickerSource.
func (s *StreamSource) Name() string { return s.name }

// Fetch implements TickerSource.
func (s *StreamSource) Fetch(ctx context.Context) ([]domain.RawTicker, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		if resp != nil {
			return nil, &SourceFetchError{
				Source: s.name,
				Status: resp.StatusCode,
				Body:   httputil.ReadErrorBody(resp.Body),
				Err:    fmt.Errorf("websocket handshake: %w", err),
			}
		}
		return nil, &SourceFetchError{Source: s.name, Err: fmt.Errorf("websocket dial: %w", err)}
	}
	defer conn.Close()

	deadline := time.Now().Add(s.readTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: fmt.Errorf("set read deadline: %w", err)}
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: fmt.Errorf("read frame: %w", err)}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))

	tickers, err := decodeTickers(message, s.unwrap)
	if err != nil {
		return nil, &SourceFetchError{Source: s.name, Err: err}
	}
	return tickers, nil
}
