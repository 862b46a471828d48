package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/drugnet/pkg/health"
	"github.com/dd0wney/drugnet/pkg/metrics"
)

// NewMux routes /graphql to gql and /metrics to the registry. /healthz,
// /readyz and /health serve the liveness, readiness and full reports of hc;
// a nil hc has no checks. Every route is instrumented.
func NewMux(gql http.Handler, reg *metrics.Registry, hc *health.HealthChecker) *http.ServeMux {
	if hc == nil {
		hc = health.NewHealthChecker()
	}
	mux := http.NewServeMux()
	mux.Handle("/graphql", instrument(reg, "/graphql", gql))
	mux.Handle("/metrics", instrument(reg, "/metrics",
		promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{})))
	mux.Handle("/healthz", instrument(reg, "/healthz", hc.LivenessHandler()))
	mux.Handle("/readyz", instrument(reg, "/readyz", hc.ReadinessHandler()))
	mux.Handle("/health", instrument(reg, "/health", hc.HTTPHandler()))
	return mux
}

// instrument tracks request count, latency and in-flight requests under a
// fixed path label.
func instrument(reg *metrics.Registry, path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reg.HTTPRequestsInFlight.Inc()
		defer reg.HTTPRequestsInFlight.Dec()

		wrapper := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		reg.RecordHTTPRequest(r.Method, path, strconv.Itoa(wrapper.statusCode), time.Since(start))
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
