package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordStage records one pipeline stage run for a drug
func (r *Registry) RecordStage(stage, drug string, duration time.Duration, err error) {
	r.StageDuration.WithLabelValues(stage, drug).Observe(duration.Seconds())
	if err != nil {
		r.StageErrorsTotal.WithLabelValues(stage, drug).Inc()
	}
}

// RecordLoaded adds n rows read from source
func (r *Registry) RecordLoaded(source string, n int) {
	r.RecordsLoadedTotal.WithLabelValues(source).Add(float64(n))
}

// RecordSkipped counts a row dropped by stage for reason
func (r *Registry) RecordSkipped(stage, reason string) {
	r.RecordsSkipped.WithLabelValues(stage, reason).Inc()
}

// RecordEstimate counts a resolved value for quantity at tier
func (r *Registry) RecordEstimate(quantity, tier string) {
	r.EstimatesTotal.WithLabelValues(quantity, tier).Inc()
}

// SetGraphSize records node and edge counts of a built graph
func (r *Registry) SetGraphSize(drug, period string, nodes, edges int) {
	r.GraphNodes.WithLabelValues(drug, period).Set(float64(nodes))
	r.GraphEdges.WithLabelValues(drug, period).Set(float64(edges))
}

// RecordArtifact records a sink write
func (r *Registry) RecordArtifact(sink string, bytes int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.ArtifactsWritten.WithLabelValues(sink, status).Inc()
	if err == nil {
		r.ArtifactBytes.WithLabelValues(sink).Add(float64(bytes))
	}
}

// RecordFetch records a request to the population data portal
func (r *Registry) RecordFetch(endpoint, status string, duration time.Duration) {
	r.FetchRequestsTotal.WithLabelValues(endpoint, status).Inc()
	r.FetchDuration.Observe(duration.Seconds())
}

// RecordEpoch records one completed training epoch
func (r *Registry) RecordEpoch(drug, period, model string, loss, auc, ap float64) {
	r.TrainingEpochsTotal.WithLabelValues(drug, model).Inc()
	r.TrainingLastLoss.WithLabelValues(drug, period, model).Set(loss)
	r.TestAUC.WithLabelValues(drug, period, model).Set(auc)
	r.TestAP.WithLabelValues(drug, period, model).Set(ap)
}
