package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideas-pusher/internal/domain"
	"ideas-pusher/internal/normalization"
)

// fakeSource returns canned tickers or an error and counts calls.
type fakeSource struct {
	name    string
	tickers []domain.RawTicker
	err     error
	calls   int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) ([]domain.RawTicker, error) {
	s.calls++
	return s.tickers, s.err
}

func binanceTicker(symbol, qv, ch string) domain.RawTicker {
	return domain.RawTicker{"symbol": symbol, "quoteVolume": qv, "priceChangePercent": ch}
}

func newFallback(entries ...*fakeSource) *Fallback {
	reg := make(Registry, 0, len(entries))
	for _, e := range entries {
		reg = append(reg, Entry{Source: e, Normalizer: normalization.Binance})
	}
	return NewFallback(FallbackOptions{Registry: reg, Logger: zerolog.Nop()})
}

func TestFallback_FirstSourceWins(t *testing.T) {
	first := &fakeSource{name: "a", tickers: []domain.RawTicker{binanceTicker("BTCUSDT", "1", "1")}}
	second := &fakeSource{name: "b", tickers: []domain.RawTicker{binanceTicker("ETHUSDT", "1", "1")}}

	res, err := newFallback(first, second).GetTickers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "a", res.Source)
	assert.Equal(t, "BTC", res.Rows[0].Symbol)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later sources must not be contacted")
}

func TestFallback_EmptyThenValid(t *testing.T) {
	empty := &fakeSource{name: "empty", tickers: []domain.RawTicker{}}
	valid := &fakeSource{name: "valid", tickers: []domain.RawTicker{
		binanceTicker("BTCUSDT", "2000000000", "5"),
		binanceTicker("DOGEUSDT", "50000000", "-12"),
		binanceTicker("XYZUSDT", "5000000", "50"),
	}}

	res, err := newFallback(empty, valid).GetTickers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "valid", res.Source)
	require.Len(t, res.Rows, 3)
	require.Len(t, res.Attempts, 2)
	assert.ErrorIs(t, res.Attempts[0].Err, ErrEmptySource)
	assert.NoError(t, res.Attempts[1].Err)
	assert.Equal(t, 3, res.Attempts[1].Rows)
}

func TestFallback_OnlyNonQuotePairsCountsAsEmpty(t *testing.T) {
	btcPairs := &fakeSource{name: "btc", tickers: []domain.RawTicker{binanceTicker("ETHBTC", "1", "1")}}
	valid := &fakeSource{name: "valid", tickers: []domain.RawTicker{binanceTicker("ETHUSDT", "1", "1")}}

	res, err := newFallback(btcPairs, valid).GetTickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "valid", res.Source)
}

func TestFallback_ErrorThenValid(t *testing.T) {
	broken := &fakeSource{name: "broken", err: &SourceFetchError{Source: "broken", Status: 451, Body: "restricted"}}
	valid := &fakeSource{name: "valid", tickers: []domain.RawTicker{binanceTicker("SOLUSDT", "1", "1")}}

	var observed []string
	fb := NewFallback(FallbackOptions{
		Registry: Registry{
			{Source: broken, Normalizer: normalization.Binance},
			{Source: valid, Normalizer: normalization.Binance},
		},
		Logger:    zerolog.Nop(),
		OnAttempt: func(a Attempt) { observed = append(observed, a.Source) },
	})

	res, err := fb.GetTickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "valid", res.Source)
	assert.Equal(t, []string{"broken", "valid"}, observed)
}

func TestFallback_Exhausted(t *testing.T) {
	a := &fakeSource{name: "a", err: errors.New("dial tcp: refused")}
	b := &fakeSource{name: "b", tickers: nil}
	c := &fakeSource{name: "c", err: &SourceFetchError{Source: "c", Status: 503, Body: "maintenance"}}

	_, err := newFallback(a, b, c).GetTickers(context.Background())
	require.Error(t, err)

	var agg *AggregateFetchError
	require.True(t, errors.As(err, &agg))
	require.Len(t, agg.Attempts, 3)

	var fe *SourceFetchError
	require.True(t, errors.As(agg.Last(), &fe))
	assert.Equal(t, 503, fe.Status)
	assert.Contains(t, err.Error(), "maintenance")
	assert.Contains(t, err.Error(), "a, b, c")
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls, "one attempt per source")
}

func TestFallback_NoSources(t *testing.T) {
	_, err := NewFallback(FallbackOptions{}).GetTickers(context.Background())
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestFallback_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &fakeSource{name: "a", tickers: []domain.RawTicker{binanceTicker("BTCUSDT", "1", "1")}}
	_, err := newFallback(a).GetTickers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, a.calls)
}

func TestAggregateFetchError_Message(t *testing.T) {
	err := &AggregateFetchError{Attempts: []Attempt{
		{Source: "x", Err: fmt.Errorf("boom")},
	}}
	assert.Equal(t, "all 1 ticker sources failed (x); last error: boom", err.Error())
}

func TestRegistry_Names(t *testing.T) {
	reg := Registry{
		{Source: &fakeSource{name: "one"}},
		{Source: &fakeSource{name: "two"}},
	}
	assert.Equal(t, []string{"one", "two"}, reg.Names())
}
