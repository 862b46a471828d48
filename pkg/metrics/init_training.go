package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTrainingMetrics() {
	r.TrainingEpochsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "drugnet_training_epochs_total",
			Help: "Training epochs completed",
		},
		[]string{"drug", "model"},
	)

	r.TrainingLastLoss = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drugnet_training_loss",
			Help: "Training loss of the last completed epoch",
		},
		[]string{"drug", "period", "model"},
	)

	r.TestAUC = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drugnet_test_auc",
			Help: "Held-out ROC AUC of the last completed epoch",
		},
		[]string{"drug", "period", "model"},
	)

	r.TestAP = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "drugnet_test_ap",
			Help: "Held-out average precision of the last completed epoch",
		},
		[]string{"drug", "period", "model"},
	)
}
