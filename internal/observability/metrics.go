package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	loginAttemptsTotal    *prometheus.CounterVec
	importRowsTotal       *prometheus.CounterVec
	uploadRejectedTotal   *prometheus.CounterVec
	summaryWarningsTotal  prometheus.Counter
	statsCacheLookupTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ssp_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ssp_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ssp_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by login path and outcome.",
		}, []string{"path", "outcome"})

		importRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ssp_import_rows_total",
			Help: "Rows processed by bulk imports, by kind and result.",
		}, []string{"kind", "result"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ssp_upload_rejected_total",
			Help: "Rejected file uploads by reason.",
		}, []string{"reason"})

		summaryWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ssp_dues_summary_integrity_warnings_total",
			Help: "Dues rows skipped during aggregation because of missing references.",
		})

		statsCacheLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ssp_stats_cache_lookups_total",
			Help: "Department stats cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			loginAttemptsTotal,
			importRowsTotal,
			uploadRejectedTotal,
			summaryWarningsTotal,
			statsCacheLookupTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// LoginAttempts exposes the login attempt counter.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}

// ImportRows exposes the bulk import row counter.
func ImportRows() *prometheus.CounterVec {
	RegisterMetrics()
	return importRowsTotal
}

// UploadRejected exposes the rejected upload counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// SummaryWarnings exposes the aggregation integrity warning counter.
func SummaryWarnings() prometheus.Counter {
	RegisterMetrics()
	return summaryWarningsTotal
}

// StatsCacheLookups exposes the stats cache hit/miss counter.
func StatsCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return statsCacheLookupTotal
}
