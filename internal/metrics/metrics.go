package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess      = "success"
	OutcomeServiceError = "service_error"
	OutcomeNetworkError = "network_error"
)

var (
	StatusChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_status_checks_total",
			Help: "Liveness probes against the prediction service by result",
		},
		[]string{"status"},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_predictions_total",
			Help: "Prediction requests by outcome",
		},
		[]string{"outcome"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predictor_prediction_duration_seconds",
			Help:    "Round trip time of prediction requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	PredictionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "predictor_predictions_in_flight",
			Help: "Prediction requests currently awaiting a response",
		},
	)

	HistoryWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "predictor_history_write_failures_total",
			Help: "Predictions that could not be recorded in the history store",
		},
	)
)
