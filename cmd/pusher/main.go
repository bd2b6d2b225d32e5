// Package main is the ideas pusher entry point.
// One invocation fetches tickers, ranks ideas, pushes them and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ideas-pusher/internal/config"
	"ideas-pusher/internal/ingestion"
	"ideas-pusher/internal/logging"
	"ideas-pusher/internal/observability"
	"ideas-pusher/internal/orchestrator"
	"ideas-pusher/internal/publish"
	"ideas-pusher/internal/ranking"
)

const metricsJob = "ideas_pusher"

func main() {
	envFile := flag.String("env-file", ".env", "Optional .env file loaded before reading the environment")
	sourcesFile := flag.String("sources", "", "YAML source registry (overrides "+config.EnvSourcesFile+")")
	flag.Parse()

	os.Exit(run(*envFile, *sourcesFile))
}

// run returns the process exit code.
func run(envFile, sourcesFile string) int {
	bootLog := logging.New(config.DefaultLogLevel)

	if err := config.LoadDotEnv(envFile); err != nil {
		bootLog.Error().Err(err).Msg("load env file")
		return 1
	}

	cfg, err := config.FromEnv()
	if err != nil {
		bootLog.Error().Err(err).Msg("invalid configuration")
		return 1
	}
	if sourcesFile != "" {
		cfg.SourcesFile = sourcesFile
	}
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("")
	result, err := execute(ctx, cfg, metrics, logger)

	pushCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	if perr := metrics.Push(pushCtx, cfg.PushgatewayURL, metricsJob, &http.Client{Timeout: cfg.HTTPTimeout}); perr != nil {
		logger.Warn().Err(perr).Msg("metrics push failed")
	}

	if err != nil {
		logFailure(logger, err)
		return 1
	}

	logger.Info().
		Str("run_id", result.RunID).
		Str("source", result.Source).
		Int("ideas", result.IdeasPushed).
		Msg(fmt.Sprintf("pushed %d ideas at %s", result.IdeasPushed, result.Timestamp))
	return 0
}

func execute(ctx context.Context, cfg config.Config, metrics *observability.Metrics, logger zerolog.Logger) (*orchestrator.RunResult, error) {
	pusher, err := publish.NewPushClient(cfg.PushURL,
		publish.WithToken(cfg.PushToken),
		publish.WithTimeout(cfg.HTTPTimeout),
	)
	if err != nil {
		return nil, &config.ConfigurationError{Field: config.EnvPushURL, Err: err}
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	registry, err := ingestion.BuildRegistry(sources, ingestion.RegistryOptions{Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, fmt.Errorf("build source registry: %w", err)
	}
	logger.Debug().Strs("sources", registry.Names()).Msg("source registry")

	fallback := ingestion.NewFallback(ingestion.FallbackOptions{
		Registry:  registry,
		Logger:    logger,
		OnAttempt: orchestrator.AttemptRecorder(metrics),
	})

	orch := orchestrator.New(orchestrator.Options{
		Fetcher: fallback,
		Builder: publish.NewBuilder(cfg.Origin),
		Pusher:  pusher,
		Ranking: ranking.Config{
			MinLiquidity: cfg.MinQuoteVolume,
			TopN:         cfg.TopN,
			TTLSec:       cfg.TTLSec,
		},
		Metrics: metrics,
		Logger:  logger,
		Clock:   time.Now,
	})
	return orch.Run(ctx)
}

func logFailure(logger zerolog.Logger, err error) {
	var (
		agg  *ingestion.AggregateFetchError
		push *publish.PushError
		cerr *config.ConfigurationError
	)
	switch {
	case errors.As(err, &cerr):
		logger.Error().Err(err).Str("field", cerr.Field).Msg("invalid configuration")
	case errors.As(err, &agg):
		logger.Error().Err(agg.Last()).Int("sources_tried", len(agg.Attempts)).Msg("all ticker sources failed")
	case errors.As(err, &push):
		logger.Error().Err(err).Int("status", push.Status).Str("body", push.Body).Msg("push failed")
	default:
		logger.Error().Err(err).Msg("run failed")
	}
}
