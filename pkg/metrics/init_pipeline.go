package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drugnet_stage_duration_seconds",
			Help:    "Duration of a pipeline stage for one drug",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"stage", "drug"},
	)

	r.StageErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_stage_errors_total",
			Help: "Pipeline stages that aborted with an error",
		},
		[]string{"stage", "drug"},
	)

	r.RecordsLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_records_loaded_total",
			Help: "Rows read from each input table",
		},
		[]string{"source"},
	)

	r.RecordsSkipped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_records_skipped_total",
			Help: "Rows dropped while processing, by reason",
		},
		[]string{"stage", "reason"},
	)

	r.EstimatesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_estimates_total",
			Help: "Resolved estimates by quantity and fallback tier",
		},
		[]string{"quantity", "tier"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drugnet_graph_nodes",
			Help: "Node count of the most recently built graph",
		},
		[]string{"drug", "period"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drugnet_graph_edges",
			Help: "Edge count of the most recently built graph",
		},
		[]string{"drug", "period"},
	)

	r.ArtifactsWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_artifacts_written_total",
			Help: "Artifacts handed to a sink",
		},
		[]string{"sink", "status"},
	)

	r.ArtifactBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_artifact_bytes_total",
			Help: "Bytes written to a sink after encoding",
		},
		[]string{"sink"},
	)
}

func (r *Registry) initFetchMetrics() {
	r.FetchRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_fetch_requests_total",
			Help: "Requests made to the population data portal",
		},
		[]string{"endpoint", "status"},
	)

	r.FetchDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drugnet_fetch_duration_seconds",
			Help:    "Population data portal request latency",
			Buckets: prometheus.DefBuckets,
		},
	)
}
