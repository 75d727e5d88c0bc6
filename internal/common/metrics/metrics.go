// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total number of prediction submissions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_duration_seconds",
			Help:    "Duration of prediction service calls in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	LookupRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_requests_total",
			Help: "Total number of lookup calls by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	StaleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_responses_total",
			Help: "Prediction outcomes discarded because a newer submission was issued",
		},
		[]string{"mode"},
	)

	ViewTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_transitions_total",
			Help: "Navigation transitions by target view",
		},
		[]string{"view"},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prediction_submissions_in_flight",
			Help: "Number of prediction submissions awaiting a response",
		},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeCached  = "cached"
	OutcomeSkipped = "skipped"
)
