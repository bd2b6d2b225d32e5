package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ideas-pusher/internal/domain"
)

// SourceConfig describes one ticker source in priority order.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Kind    domain.SourceKind `yaml:"kind"`
	URL     string            `yaml:"url"`
	Unwrap  []string          `yaml:"unwrap"` // dotted paths tried when the body is not a bare array
	Schema  string            `yaml:"schema"`
	Enabled *bool             `yaml:"enabled"`
}

// IsEnabled reports whether the source takes part in the fallback walk.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// SourcesFile is the YAML layout of IDEAS_SOURCES_FILE.
type SourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// DefaultSources returns the built-in registry, most preferred first.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "binance", Kind: domain.SourceKindHTTP, URL: "https://api.binance.com/api/v3/ticker/24hr", Schema: "binance"},
		{Name: "bybit", Kind: domain.SourceKindHTTP, URL: "https://api.bybit.com/v5/market/tickers?category=spot", Unwrap: []string{"result.list"}, Schema: "bybit"},
		{Name: "gate", Kind: domain.SourceKindHTTP, URL: "https://api.gateio.ws/api/v4/spot/tickers", Schema: "gate"},
		{Name: "kucoin", Kind: domain.SourceKindHTTP, URL: "https://api.kucoin.com/api/v1/market/allTickers", Unwrap: []string{"data.ticker"}, Schema: "kucoin"},
		{Name: "binance-stream", Kind: domain.SourceKindStream, URL: "wss://stream.binance.com:9443/ws/!ticker@arr", Schema: "binance_stream"},
	}
}

// LoadSources reads a sources file, or returns DefaultSources when path is empty.
func LoadSources(path string) ([]SourceConfig, error) {
	if path == "" {
		return DefaultSources(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Field: EnvSourcesFile, Err: err}
	}
	return ParseSources(data)
}

// ParseSources decodes and validates a YAML sources document.
func ParseSources(data []byte) ([]SourceConfig, error) {
	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("decode yaml: %w", err)}
	}
	if len(file.Sources) == 0 {
		return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("no sources declared")}
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		s := &file.Sources[i]
		if s.Kind == "" {
			s.Kind = domain.SourceKindHTTP
		}
		switch {
		case s.Name == "":
			return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("source #%d has no name", i+1)}
		case seen[s.Name]:
			return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("duplicate source %q", s.Name)}
		case !s.Kind.IsValid():
			return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("source %q: unknown kind %q", s.Name, s.Kind)}
		case s.URL == "":
			return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("source %q has no url", s.Name)}
		case s.Schema == "":
			return nil, &ConfigurationError{Field: EnvSourcesFile, Err: fmt.Errorf("source %q has no schema", s.Name)}
		}
		seen[s.Name] = true
	}
	return file.Sources, nil
}
