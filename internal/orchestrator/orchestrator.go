// Package orchestrator runs one pusher job.
// It coordinates: fetch → rank → build → push
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/ingestion"
	"ideas-pusher/internal/observability"
	"ideas-pusher/internal/publish"
	"ideas-pusher/internal/ranking"
)

// ErrNoPusher is returned when Run is called without a push client.
var ErrNoPusher = errors.New("no push client configured")

// TickerFetcher returns normalized rows from the first usable source.
type TickerFetcher interface {
	GetTickers(ctx context.Context) (*ingestion.Result, error)
}

// Pusher delivers a payload to the downstream consumer.
type Pusher interface {
	Push(ctx context.Context, payload domain.IdeasPayload, requestID string) error
}

// Orchestrator coordinates a single run.
type Orchestrator struct {
	fetcher TickerFetcher
	ranking ranking.Config
	builder *publish.Builder
	pusher  Pusher
	metrics *observability.Metrics
	logger  zerolog.Logger
	newID   func() string
	clock   func() time.Time
}

// Options for creating Orchestrator.
type Options struct {
	// Required
	Fetcher TickerFetcher
	Builder *publish.Builder
	Pusher  Pusher

	Ranking ranking.Config

	// Optional
	Metrics *observability.Metrics
	Logger  zerolog.Logger
	NewID   func() string    // run id generator, defaults to uuid
	Clock   func() time.Time // for run timing, defaults to time.Now
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		fetcher: opts.Fetcher,
		ranking: opts.Ranking,
		builder: opts.Builder,
		pusher:  opts.Pusher,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		newID:   opts.NewID,
		clock:   opts.Clock,
	}
	if o.newID == nil {
		o.newID = func() string { return uuid.NewString() }
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o
}

// RunResult contains results from one run.
type RunResult struct {
	RunID        string
	Source       string
	RowsFetched  int
	RowsAdmitted int
	IdeasPushed  int
	Timestamp    string   // payload ts
	SourceErrors []string // recovered per-source failures
}

// Run executes the job.
// Phases:
//  1. Fetch tickers with source fallback
//  2. Rank admitted rows
//  3. Build the payload
//  4. Push it
func (o *Orchestrator) Run(ctx context.Context) (result *RunResult, err error) {
	if o.pusher == nil {
		return nil, ErrNoPusher
	}
	if o.fetcher == nil {
		return nil, ingestion.ErrNoSources
	}
	if o.builder == nil {
		o.builder = publish.NewBuilder("")
	}

	start := o.clock()
	result = &RunResult{RunID: o.newID()}
	log := o.logger.With().Str("run_id", result.RunID).Logger()

	defer func() {
		status := observability.StatusSuccess
		if err != nil {
			status = observability.StatusFailure
		}
		if o.metrics != nil {
			o.metrics.RecordRun(status, o.clock().Sub(start), o.clock())
		}
	}()

	// Phase 1: Fetch
	log.Debug().Msg("phase 1: fetching tickers")
	fetched, err := o.fetcher.GetTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (fetch) failed: %w", err)
	}
	result.Source = fetched.Source
	result.RowsFetched = len(fetched.Rows)
	for _, a := range fetched.Attempts {
		if a.Err != nil {
			result.SourceErrors = append(result.SourceErrors, a.Err.Error())
		}
	}
	log.Info().Str("source", fetched.Source).Int("rows", result.RowsFetched).Int("failed_sources", len(result.SourceErrors)).Msg("tickers fetched")

	// Phase 2: Rank
	log.Debug().Msg("phase 2: ranking")
	result.RowsAdmitted = len(ranking.Filter(fetched.Rows, o.ranking.MinLiquidity))
	ideas := ranking.Rank(fetched.Rows, o.ranking)
	log.Info().Int("admitted", result.RowsAdmitted).Int("ideas", len(ideas)).Float64("min_liquidity", o.ranking.MinLiquidity).Msg("ideas ranked")

	// Phase 3: Build
	payload := o.builder.Build(ideas)
	result.Timestamp = payload.TS

	// Phase 4: Push
	log.Debug().Msg("phase 4: pushing")
	if err := o.pusher.Push(ctx, payload, result.RunID); err != nil {
		return nil, fmt.Errorf("phase 4 (push) failed: %w", err)
	}
	result.IdeasPushed = len(payload.Ideas)

	if o.metrics != nil {
		o.metrics.RowsFetched.Set(float64(result.RowsFetched))
		o.metrics.RowsAdmitted.Set(float64(result.RowsAdmitted))
		o.metrics.IdeasPushed.Set(float64(result.IdeasPushed))
	}

	log.Info().Int("ideas", result.IdeasPushed).Str("ts", result.Timestamp).Msg("pushed ideas")
	return result, nil
}

// AttemptRecorder adapts Metrics to FallbackOptions.OnAttempt.
func AttemptRecorder(m *observability.Metrics) func(ingestion.Attempt) {
	return func(a ingestion.Attempt) {
		if m == nil {
			return
		}
		status := observability.StatusSuccess
		switch {
		case errors.Is(a.Err, ingestion.ErrEmptySource):
			status = observability.StatusEmpty
		case a.Err != nil:
			status = observability.StatusFailure
		}
		m.RecordSourceAttempt(a.Source, status, a.Duration)
	}
}
