// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	ListingsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_scored_total",
			Help: "Total number of listings scored, by badge",
		},
		[]string{"badge"},
	)

	SelectionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_selections_total",
			Help: "Selection results by terminal state (showing, exhausted, no_matches)",
		},
		[]string{"state"},
	)

	DecisionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decisions_recorded_total",
			Help: "Apply/wait decisions recorded",
		},
		[]string{"outcome"},
	)
)
