package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned by IdeasPayload.Validate.
var ErrInvalidPayload = errors.New("invalid ideas payload")

// Side is the direction of a trade idea.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// IsValid checks if the side is a valid value.
func (s Side) IsValid() bool {
	return s == SideLong || s == SideShort
}

// SideFor returns long for a non-negative change and short otherwise.
func SideFor(pctChange float64) Side {
	if pctChange >= 0 {
		return SideLong
	}
	return SideShort
}

// RankedIdea is one ranked, time-bounded directional suggestion.
type RankedIdea struct {
	Symbol string  `json:"symbol"`
	Side   Side    `json:"side"`
	Score  float64 `json:"score"`   // confidence proxy in [60, 100]
	Rank   int     `json:"rank"`    // 1 = best, dense
	TTLSec int     `json:"ttl_sec"` // validity window, same for every idea in a run
}

// Payload constants.
const (
	PayloadMode   = "normal"
	PayloadSource = "external_pusher"

	// TimestampLayout matches ISO-8601 UTC with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// PayloadMeta describes where a run was triggered from.
type PayloadMeta struct {
	Origin string `json:"origin"`
}

// IdeasPayload is the envelope published once per run.
type IdeasPayload struct {
	TS     string       `json:"ts"`
	Mode   string       `json:"mode"`
	Source string       `json:"source"`
	Meta   PayloadMeta  `json:"meta"`
	TopN   int          `json:"top_n"`
	Ideas  []RankedIdea `json:"ideas"`
}

// Validate checks the envelope invariants consumers rely on: top_n equals
// the number of ideas, ranks are dense from 1 and every side is long or short.
func (p IdeasPayload) Validate() error {
	if p.TS == "" {
		return fmt.Errorf("%w: empty ts", ErrInvalidPayload)
	}
	if p.TopN != len(p.Ideas) {
		return fmt.Errorf("%w: top_n %d with %d ideas", ErrInvalidPayload, p.TopN, len(p.Ideas))
	}
	for i, idea := range p.Ideas {
		if idea.Rank != i+1 {
			return fmt.Errorf("%w: idea %d (%s) has rank %d", ErrInvalidPayload, i, idea.Symbol, idea.Rank)
		}
		if !idea.Side.IsValid() {
			return fmt.Errorf("%w: idea %s has side %q", ErrInvalidPayload, idea.Symbol, idea.Side)
		}
	}
	return nil
}
