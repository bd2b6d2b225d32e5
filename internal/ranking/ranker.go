// Package ranking turns normalized tickers into ranked trade ideas.
package ranking

import (
	"math"
	"sort"

	"ideas-pusher/internal/domain"
)

// Blend weights for the ranking key.
const (
	VolumeWeight = 0.7
	ChangeWeight = 0.3
	// ChangeScale lifts a percent move to the order of magnitude of quote volumes.
	ChangeScale = 1_000_000

	BaseScore = 60.0
	MaxBonus  = 40.0
)

// Config holds the ranking parameters for one run.
type Config struct {
	MinLiquidity float64 // minimum 24h quote volume, inclusive
	TopN         int
	TTLSec       int
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() Config {
	return Config{
		MinLiquidity: 10_000_000,
		TopN:         10,
		TTLSec:       900,
	}
}

// Admit reports whether a row passes the liquidity filter.
func Admit(row domain.TickerRow, minLiquidity float64) bool {
	return row.HasFiniteVolume() && row.QuoteVolume >= minLiquidity
}

// SortKey is the blended liquidity/volatility key; larger ranks first.
func SortKey(row domain.TickerRow) float64 {
	return row.QuoteVolume*VolumeWeight + math.Abs(change(row))*ChangeScale*ChangeWeight
}

// Score maps a percent move to a confidence proxy in [60, 100].
func Score(pctChange float64) float64 {
	if math.IsNaN(pctChange) || math.IsInf(pctChange, 0) {
		pctChange = 0
	}
	s := BaseScore + math.Min(MaxBonus, math.Abs(pctChange))
	return math.Max(BaseScore, math.Min(BaseScore+MaxBonus, s))
}

// Rank filters, sorts, truncates and builds idea records. It does not modify rows.
func Rank(rows []domain.TickerRow, cfg Config) []domain.RankedIdea {
	admitted := Filter(rows, cfg.MinLiquidity)

	sort.SliceStable(admitted, func(i, j int) bool {
		return SortKey(admitted[i]) > SortKey(admitted[j])
	})

	if cfg.TopN >= 0 && len(admitted) > cfg.TopN {
		admitted = admitted[:cfg.TopN]
	}

	ideas := make([]domain.RankedIdea, 0, len(admitted))
	for i, row := range admitted {
		pct := change(row)
		ideas = append(ideas, domain.RankedIdea{
			Symbol: row.Symbol,
			Side:   domain.SideFor(pct),
			Score:  Score(pct),
			Rank:   i + 1,
			TTLSec: cfg.TTLSec,
		})
	}
	return ideas
}

// Filter returns a copy of the rows passing the liquidity filter, in input order.
func Filter(rows []domain.TickerRow, minLiquidity float64) []domain.TickerRow {
	out := make([]domain.TickerRow, 0, len(rows))
	for _, r := range rows {
		if Admit(r, minLiquidity) {
			out = append(out, r)
		}
	}
	return out
}

// change treats an unmeasured move as no move.
func change(row domain.TickerRow) float64 {
	if math.IsNaN(row.PctChange) || math.IsInf(row.PctChange, 0) {
		return 0
	}
	return row.PctChange
}
