package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideas-pusher/internal/domain"
)

func TestDefaultSources_Order(t *testing.T) {
	sources := DefaultSources()
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name)
		assert.True(t, s.IsEnabled())
		assert.True(t, s.Kind.IsValid())
	}
	assert.Equal(t, []string{"binance", "bybit", "gate", "kucoin", "binance-stream"}, names)
}

func TestLoadSources_EmptyPathUsesDefaults(t *testing.T) {
	sources, err := LoadSources("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSources(), sources)
}

func TestLoadSources_File(t *testing.T) {
	doc := `
sources:
  - name: gate
    url: https://api.gateio.ws/api/v4/spot/tickers
    schema: gate
  - name: bybit
    kind: http
    url: https://api.bybit.com/v5/market/tickers?category=spot
    unwrap: [result.list, list]
    schema: bybit
    enabled: false
  - name: stream
    kind: stream
    url: wss://example/ws
    schema: binance_stream
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 3)

	assert.Equal(t, domain.SourceKindHTTP, sources[0].Kind)
	assert.True(t, sources[0].IsEnabled())
	assert.Equal(t, []string{"result.list", "list"}, sources[1].Unwrap)
	assert.False(t, sources[1].IsEnabled())
	assert.Equal(t, domain.SourceKindStream, sources[2].Kind)
}

func TestParseSources_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":     `sources: []`,
		"no name":   "sources:\n  - url: http://x\n    schema: gate\n",
		"duplicate": "sources:\n  - {name: a, url: http://x, schema: gate}\n  - {name: a, url: http://y, schema: gate}\n",
		"bad kind":  "sources:\n  - {name: a, kind: grpc, url: http://x, schema: gate}\n",
		"no url":    "sources:\n  - {name: a, schema: gate}\n",
		"no schema": "sources:\n  - {name: a, url: http://x}\n",
		"not yaml":  "sources: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSources([]byte(doc))
			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, EnvSourcesFile, cerr.Field)
		})
	}
}

func TestLoadSources_MissingFile(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExampleSourcesFileMatchesDefaults(t *testing.T) {
	sources, err := LoadSources(filepath.Join("..", "..", "configs", "sources.example.yaml"))
	require.NoError(t, err)

	defaults := DefaultSources()
	require.Len(t, sources, len(defaults))
	for i := range defaults {
		assert.Equal(t, defaults[i].Name, sources[i].Name)
		assert.Equal(t, defaults[i].URL, sources[i].URL)
		assert.Equal(t, defaults[i].Schema, sources[i].Schema)
		assert.Equal(t, defaults[i].Kind, sources[i].Kind)
		assert.Equal(t, len(defaults[i].Unwrap), len(sources[i].Unwrap))
	}
}
