package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.ObserveAPIRequest("GET", 200, 10*time.Millisecond)
	m.ObserveAPIRequest("GET", 0, time.Millisecond)
	m.IncRefresh(metrics.ResultSuccess)
	m.IncRefresh(metrics.ResultFailure)
	m.IncRefresh(metrics.ResultFailure)
	m.IncRetryTransition("terminal")
	m.IncSiteDataFetch(metrics.ResultSkipped)
	m.SetBreakerOpen(true)

	count, err := testutil.GatherAndCount(m.Registry(), "tco_front_api_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per method/status pair")

	count, err = testutil.GatherAndCount(m.Registry(), "tco_front_session_refreshes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveAPIRequest("GET", 500, time.Second)
		m.IncRefresh(metrics.ResultSuccess)
		m.IncRetryTransition("resolved")
		m.IncSiteDataFetch(metrics.ResultFailure)
		m.SetBreakerOpen(false)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.IncRefresh(metrics.ResultSuccess)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tco_front_session_refreshes_total{result="success"} 1`)
}
