// Package publish builds the ideas envelope and delivers it to the consumer.
package publish

import (
	"time"

	"ideas-pusher/internal/domain"
)

// Builder wraps ranked ideas into an IdeasPayload.
type Builder struct {
	origin string
	clock  func() time.Time
}

// NewBuilder creates a Builder stamping meta.origin with origin.
func NewBuilder(origin string) *Builder {
	return &Builder{origin: origin, clock: time.Now}
}

// WithClock sets a custom clock for deterministic output.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	if clock != nil {
		b.clock = clock
	}
	return b
}

// Build returns the envelope for ideas, timestamped now.
func (b *Builder) Build(ideas []domain.RankedIdea) domain.IdeasPayload {
	if ideas == nil {
		ideas = []domain.RankedIdea{}
	}
	return domain.IdeasPayload{
		TS:     b.clock().UTC().Format(domain.TimestampLayout),
		Mode:   domain.PayloadMode,
		Source: domain.PayloadSource,
		Meta:   domain.PayloadMeta{Origin: b.origin},
		TopN:   len(ideas),
		Ideas:  ideas,
	}
}
