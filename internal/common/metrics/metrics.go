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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchCandidatePoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_candidate_pool_size",
			Help:    "Number of candidates surviving hard filters per recommendation request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"task_type"},
	)

	MatchScoreTotal = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_score_total",
			Help:    "Distribution of computed total match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"task_type"},
	)

	MatchCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_profile_cache_hits_total",
			Help: "Profile cache hits and misses",
		},
		[]string{"result"},
	)
)
