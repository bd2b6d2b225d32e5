// Package normalization converts exchange ticker payloads into domain.TickerRow.
// One Normalizer variant exists per exchange schema; the registry entry selects it.
package normalization

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"ideas-pusher/internal/domain"
)

// Normalizer maps one source's raw tickers to normalized rows.
// Implementations must preserve input order and only drop, never reorder.
type Normalizer interface {
	Normalize(raw []domain.RawTicker) []domain.TickerRow
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc func(raw []domain.RawTicker) []domain.TickerRow

// Normalize calls f(raw).
func (f NormalizerFunc) Normalize(raw []domain.RawTicker) []domain.TickerRow {
	return f(raw)
}

// FieldNormalizer reads a fixed set of named fields from each ticker.
type FieldNormalizer struct {
	QuoteSuffix  string   // e.g. "USDT", "_USDT", "-USDT"
	SymbolFields []string // first present field wins
	VolumeFields []string
	ChangeFields []string
	ChangeScale  float64 // multiplier applied to change; 100 for fractional sources, 0 means 1
}

// Normalize implements Normalizer.
func (n FieldNormalizer) Normalize(raw []domain.RawTicker) []domain.TickerRow {
	scale := n.ChangeScale
	if scale == 0 {
		scale = 1
	}

	rows := make([]domain.TickerRow, 0, len(raw))
	for _, t := range raw {
		sym, ok := firstString(t, n.SymbolFields)
		if !ok || !strings.HasSuffix(sym, n.QuoteSuffix) {
			continue
		}
		base := strings.TrimSuffix(sym, n.QuoteSuffix)
		if base == "" || strings.Contains(base, n.QuoteSuffix) {
			continue
		}

		rows = append(rows, domain.TickerRow{
			Symbol:      base,
			QuoteVolume: firstNumber(t, n.VolumeFields),
			PctChange:   firstNumber(t, n.ChangeFields) * scale,
		})
	}
	return rows
}

func firstString(t domain.RawTicker, fields []string) (string, bool) {
	for _, f := range fields {
		v, ok := t[f]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", false
		}
		return s, true
	}
	return "", false
}

// firstNumber returns NaN when no field is present or the value cannot be parsed.
func firstNumber(t domain.RawTicker, fields []string) float64 {
	for _, f := range fields {
		v, ok := t[f]
		if !ok || v == nil {
			continue
		}
		return ParseNumber(v)
	}
	return math.NaN()
}

// ParseNumber converts a decoded JSON value to float64, or NaN.
func ParseNumber(v any) float64 {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	default:
		return math.NaN()
	}
}
