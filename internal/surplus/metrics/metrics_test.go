package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.AuthAttempt("ok")
	m.AuthAttempt("ok")
	m.AuthAttempt("invalid_credentials")
	m.TokenIssued("session")
	m.TokenRejected("expired")
	m.NotificationCreated("SYSTEM")
	m.HousekeepingChanged("expire_listings", 3)
	m.HousekeepingChanged("expire_listings", 0)
	m.ObserveRequest("GET", "", 200, 10*time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("invalid_credentials")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TokensIssued.WithLabelValues("session")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TokenFailures.WithLabelValues("expired")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.HousekeepingRows.WithLabelValues("expire_listings")))
	require.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.AuthAttempt("ok")
		m.TokenIssued("access")
		m.TokenRejected("malformed")
		m.NotificationCreated("SYSTEM")
		m.HousekeepingChanged("x", 1)
		m.ObserveRequest("GET", "/livez", 200, time.Millisecond)
	})
}

func TestNew_NilRegisterer(t *testing.T) {
	require.NotPanics(t, func() {
		metrics.New(nil)
		metrics.New(nil)
	})
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	m := metrics.New(reg)
	m.TokenIssued("access")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `surplus_tokens_issued_total{kind="access"} 1`)
	require.Contains(t, body, "go_goroutines")
}
