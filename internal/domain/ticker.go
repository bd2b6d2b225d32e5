package domain

import "math"

// RawTicker is one decoded ticker object as returned by an exchange.
// Field names and value types differ per exchange; numbers are decoded as json.Number.
type RawTicker map[string]any

// TickerRow is a ticker normalized to the fields used for ranking.
type TickerRow struct {
	Symbol      string  // base asset, quote suffix stripped
	QuoteVolume float64 // 24h traded value in quote currency, NaN if unparseable
	PctChange   float64 // signed 24h change in percent, NaN if unparseable
}

// HasFiniteVolume reports whether QuoteVolume is usable for filtering.
func (r TickerRow) HasFiniteVolume() bool {
	return !math.IsNaN(r.QuoteVolume) && !math.IsInf(r.QuoteVolume, 0)
}
