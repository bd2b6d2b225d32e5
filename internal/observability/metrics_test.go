package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordSourceAttempt(t *testing.T) {
	m := NewMetrics("")
	m.RecordSourceAttempt("binance", StatusFailure, 200*time.Millisecond)
	m.RecordSourceAttempt("bybit", StatusSuccess, 300*time.Millisecond)
	m.RecordSourceAttempt("bybit", StatusSuccess, 100*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceAttempts.WithLabelValues("binance", StatusFailure)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceAttempts.WithLabelValues("bybit", StatusSuccess)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.SourceFetchDuration))
}

func TestMetrics_RecordRun(t *testing.T) {
	m := NewMetrics("test")
	finished := time.Unix(1_700_000_000, 0)

	m.RecordRun(StatusFailure, time.Second, finished)
	assert.Zero(t, testutil.ToFloat64(m.LastSuccess))

	m.RecordRun(StatusSuccess, time.Second, finished)
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(m.LastSuccess))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StatusSuccess)))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics("")
	b := NewMetrics("")
	a.IdeasPushed.Set(3)
	assert.Zero(t, testutil.ToFloat64(b.IdeasPushed))
}

func TestMetrics_Push(t *testing.T) {
	var path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewMetrics("")
	m.IdeasPushed.Set(7)
	require.NoError(t, m.Push(context.Background(), server.URL, "ideas_pusher", server.Client()))

	assert.Equal(t, "/metrics/job/ideas_pusher", path)
	assert.Contains(t, body, "ideas_pusher_run_ideas_pushed")
}

func TestMetrics_PushNoGateway(t *testing.T) {
	assert.NoError(t, NewMetrics("").Push(context.Background(), "", "job", nil))
}
