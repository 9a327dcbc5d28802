package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, so services can run without it in tests.
type Metrics struct {
	// Latency of HTTP requests by route pattern
	RequestDuration *prometheus.HistogramVec

	// Authentication attempts by result: ok, invalid_credentials, not_activated, error
	AuthAttempts *prometheus.CounterVec

	// Tokens minted by kind
	TokensIssued *prometheus.CounterVec

	// Bearer or refresh tokens rejected, by jwtx reason
	TokenFailures *prometheus.CounterVec

	// Notifications persisted by type
	NotificationsCreated *prometheus.CounterVec

	// Rows touched by each housekeeping task
	HousekeepingRows *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	// Unregistered sink when no registry is given
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "surplus_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),

		AuthAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "surplus_auth_attempts_total",
			Help: "Authentication attempts by result.",
		}, []string{"result"}),

		TokensIssued: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "surplus_tokens_issued_total",
			Help: "Tokens issued by kind.",
		}, []string{"kind"}),

		TokenFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "surplus_token_failures_total",
			Help: "Rejected tokens by failure reason.",
		}, []string{"reason"}),

		NotificationsCreated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "surplus_notifications_created_total",
			Help: "Notifications created by type.",
		}, []string{"type"}),

		HousekeepingRows: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "surplus_housekeeping_rows_total",
			Help: "Rows changed by housekeeping tasks.",
		}, []string{"task"}),
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) AuthAttempt(result string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) TokenIssued(kind string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(kind).Inc()
}

func (m *Metrics) TokenRejected(reason string) {
	if m == nil {
		return
	}
	m.TokenFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) NotificationCreated(kind string) {
	if m == nil {
		return
	}
	m.NotificationsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) HousekeepingChanged(task string, rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.HousekeepingRows.WithLabelValues(task).Add(float64(rows))
}
