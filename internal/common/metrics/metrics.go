package metrics

import (
	"strconv"

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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AffordabilityEstimates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affordability_estimates_total",
			Help: "Affordability estimates by result (estimated, no_data)",
		},
		[]string{"result"},
	)

	BudgetVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_verdicts_total",
			Help: "Loan breakdown budget verdicts against the 20% guideline",
		},
		[]string{"within_guideline"},
	)

	CalculationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_cache_total",
			Help: "Calculation memoization lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)
)

const (
	EstimateResultEstimated = "estimated"
	EstimateResultNoData    = "no_data"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func RecordBudgetVerdict(withinGuideline bool) {
	BudgetVerdicts.WithLabelValues(strconv.FormatBool(withinGuideline)).Inc()
}
