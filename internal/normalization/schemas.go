package normalization

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSchema is returned when a schema name has no normalizer.
var ErrUnknownSchema = errors.New("unknown ticker schema")

// Schema names.
const (
	SchemaBinance       = "binance"
	SchemaBinanceStream = "binance_stream"
	SchemaBybit         = "bybit"
	SchemaGate          = "gate"
	SchemaKuCoin        = "kucoin"
)

// Binance REST /api/v3/ticker/24hr: {"symbol":"BTCUSDT","quoteVolume":"...","priceChangePercent":"1.23"}
var Binance = FieldNormalizer{
	QuoteSuffix:  "USDT",
	SymbolFields: []string{"symbol"},
	VolumeFields: []string{"quoteVolume"},
	ChangeFields: []string{"priceChangePercent"},
}

// BinanceStream is the !ticker@arr stream payload with single-letter keys.
var BinanceStream = FieldNormalizer{
	QuoteSuffix:  "USDT",
	SymbolFields: []string{"s"},
	VolumeFields: []string{"q"},
	ChangeFields: []string{"P"},
}

// Bybit v5 spot tickers report the change as a fraction.
var Bybit = FieldNormalizer{
	QuoteSuffix:  "USDT",
	SymbolFields: []string{"symbol"},
	VolumeFields: []string{"turnover24h"},
	ChangeFields: []string{"price24hPcnt"},
	ChangeScale:  100,
}

// Gate v4 spot tickers.
var Gate = FieldNormalizer{
	QuoteSuffix:  "_USDT",
	SymbolFields: []string{"currency_pair"},
	VolumeFields: []string{"quote_volume"},
	ChangeFields: []string{"change_percentage"},
}

// KuCoin allTickers; changeRate is a fraction.
var KuCoin = FieldNormalizer{
	QuoteSuffix:  "-USDT",
	SymbolFields: []string{"symbol"},
	VolumeFields: []string{"volValue"},
	ChangeFields: []string{"changeRate"},
	ChangeScale:  100,
}

var schemas = map[string]Normalizer{
	SchemaBinance:       Binance,
	SchemaBinanceStream: BinanceStream,
	SchemaBybit:         Bybit,
	SchemaGate:          Gate,
	SchemaKuCoin:        KuCoin,
}

// Lookup returns the normalizer registered under name.
func Lookup(name string) (Normalizer, error) {
	n, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return n, nil
}

// Schemas returns the known schema names, sorted.
func Schemas() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
