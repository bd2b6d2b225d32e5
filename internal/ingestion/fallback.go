package ingestion

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ideas-pusher/internal/domain"
)

// Attempt records one source tried during a fallback walk.
type Attempt struct {
	Source   string
	Rows     int // normalized rows produced; 0 on failure
	Err      error
	Duration time.Duration
}

// Result is the outcome of a successful walk.
type Result struct {
	Source   string // name of the source that won
	Rows     []domain.TickerRow
	Attempts []Attempt // every attempt made, the winning one last
}

// Fallback walks a Registry strictly in order, one source at a time,
// and returns the first non-empty normalized set.
type Fallback struct {
	registry Registry
	logger   zerolog.Logger
	observe  func(Attempt)
}

// FallbackOptions for creating Fallback.
type FallbackOptions struct {
	Registry Registry
	Logger   zerolog.Logger
	// OnAttempt, when set, is called after every source attempt.
	OnAttempt func(Attempt)
}

// NewFallback creates a new Fallback.
func NewFallback(opts FallbackOptions) *Fallback {
	observe := opts.OnAttempt
	if observe == nil {
		observe = func(Attempt) {}
	}
	return &Fallback{
		registry: opts.Registry,
		logger:   opts.Logger,
		observe:  observe,
	}
}

// GetTickers returns rows from the first source that yields any.
// Per-source failures are logged and skipped; only exhaustion is an error,
// reported as *AggregateFetchError.
func (f *Fallback) GetTickers(ctx context.Context) (*Result, error) {
	if len(f.registry) == 0 {
		return nil, ErrNoSources
	}

	attempts := make([]Attempt, 0, len(f.registry))
	for _, entry := range f.registry {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Source.Name()
		start := time.Now()
		rows, err := f.try(ctx, entry)
		attempt := Attempt{Source: name, Rows: len(rows), Err: err, Duration: time.Since(start)}
		attempts = append(attempts, attempt)
		f.observe(attempt)

		if err != nil {
			f.logger.Warn().Err(err).Str("source", name).Dur("elapsed", attempt.Duration).Msg("ticker source failed, trying next")
			continue
		}

		f.logger.Info().Str("source", name).Int("rows", len(rows)).Dur("elapsed", attempt.Duration).Msg("ticker source selected")
		return &Result{Source: name, Rows: rows, Attempts: attempts}, nil
	}

	return nil, &AggregateFetchError{Attempts: attempts}
}

func (f *Fallback) try(ctx context.Context, entry Entry) ([]domain.TickerRow, error) {
	raw, err := entry.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	rows := entry.Normalizer.Normalize(raw)
	if len(rows) == 0 {
		return nil, &SourceFetchError{Source: entry.Source.Name(), Err: ErrEmptySource}
	}
	return rows, nil
}
