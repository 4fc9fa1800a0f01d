package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/Wilmersdorf/spaceoverview/internal/telemetry"
)

// MetricsCollector keeps the request and error totals shown by GET /metrics
// and mirrors every response into spaceoverview_http_requests_total.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	metrics      *telemetry.Metrics
}

// NewMetricsCollector shares the counters owned by the App. A nil m skips
// the Prometheus side.
func NewMetricsCollector(requestCount, errorCount *atomic.Int64, m *telemetry.Metrics) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
		metrics:      m,
	}
}

// Middleware sits on the root router, so health and metrics scrapes count too.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		// Rejected edits (validation, conflicts) are counted too.
		if rw.statusCode >= 400 {
			mc.errorCount.Add(1)
		}
		mc.metrics.ObserveRequest(r.Method, rw.statusCode)
	})
}
