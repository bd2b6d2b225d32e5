// Package ingestion fetches raw tickers from exchanges and walks the
// source registry in priority order until one yields usable rows.
package ingestion

import (
	"context"

	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/normalization"
)

// TickerSource provides the raw 24h ticker array of one exchange.
type TickerSource interface {
	// Name is a stable identifier used in logs, metrics and errors.
	Name() string
	// Fetch performs exactly one call and returns the unwrapped ticker array.
	Fetch(ctx context.Context) ([]domain.RawTicker, error)
}

// Entry pairs a source with the normalizer for its schema.
type Entry struct {
	Source     TickerSource
	Normalizer normalization.Normalizer
}

// Registry is an ordered list of entries; earlier entries are preferred.
type Registry []Entry

// Names returns the source names in priority order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for _, e := range r {
		names = append(names, e.Source.Name())
	}
	return names
}
