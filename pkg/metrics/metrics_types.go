package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics (serve)
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline Metrics
	StageDuration      *prometheus.HistogramVec
	StageErrorsTotal   *prometheus.CounterVec
	RecordsLoadedTotal *prometheus.CounterVec
	RecordsSkipped     *prometheus.CounterVec
	EstimatesTotal     *prometheus.CounterVec
	GraphNodes         *prometheus.GaugeVec
	GraphEdges         *prometheus.GaugeVec
	ArtifactsWritten   *prometheus.CounterVec
	ArtifactBytes      *prometheus.CounterVec

	// Fetch Metrics (population client)
	FetchRequestsTotal *prometheus.CounterVec
	FetchDuration      prometheus.Histogram

	// Training Metrics
	TrainingEpochsTotal *prometheus.CounterVec
	TrainingLastLoss    *prometheus.GaugeVec
	TestAUC             *prometheus.GaugeVec
	TestAP              *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initPipelineMetrics()
	r.initFetchMetrics()
	r.initTrainingMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
