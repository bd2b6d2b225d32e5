package ingestion

import (
	"fmt"
	"net/http"
	"time"

	"ideas-pusher/internal/config"
	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/normalization"
)

// RegistryOptions carries transport settings shared by all sources.
type RegistryOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

// BuildRegistry turns source configs into a Registry, keeping their order
// and skipping disabled entries.
func BuildRegistry(sources []config.SourceConfig, opts RegistryOptions) (Registry, error) {
	reg := make(Registry, 0, len(sources))
	for _, sc := range sources {
		if !sc.IsEnabled() {
			continue
		}
		norm, err := normalization.Lookup(sc.Schema)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sc.Name, err)
		}

		var src TickerSource
		switch sc.Kind {
		case domain.SourceKindHTTP, "":
			src = NewHTTPSource(sc.Name, sc.URL, sc.Unwrap, WithHTTPClient(opts.HTTPClient), WithTimeout(opts.Timeout))
		case domain.SourceKindStream:
			src = NewStreamSource(sc.Name, sc.URL, sc.Unwrap, WithReadTimeout(opts.Timeout))
		default:
			return nil, fmt.Errorf("source %s: unknown kind %q", sc.Name, sc.Kind)
		}

		reg = append(reg, Entry{Source: src, Normalizer: norm})
	}
	if len(reg) == 0 {
		return nil, ErrNoSources
	}
	return reg, nil
}
