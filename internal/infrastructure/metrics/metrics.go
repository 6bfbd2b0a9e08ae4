package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsClaimedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galerie_jobs_claimed_total",
			Help: "Total number of jobs successfully claimed",
		},
		[]string{"type"},
	)

	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galerie_jobs_completed_total",
			Help: "Total number of jobs completed",
		},
		[]string{"type"},
	)

	// outcome is "retry" when the job went back to pending, "terminal" when it failed for good.
	JobsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galerie_jobs_failed_total",
			Help: "Total number of failed job attempts",
		},
		[]string{"type", "outcome"},
	)

	JobsRecoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galerie_jobs_recovered_total",
			Help: "Total number of stuck jobs returned to pending",
		},
	)

	JobsPending = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "galerie_jobs_pending",
			Help: "Pending jobs observed after the last drain pass",
		},
		[]string{"type"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "galerie_job_duration_seconds",
			Help:    "Time spent processing a claimed job",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"type", "status"},
	)

	MaintenanceRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galerie_maintenance_removed_total",
			Help: "Items removed by maintenance sweeps",
		},
		[]string{"kind"},
	)

	MediaIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galerie_media_ingested_total",
			Help: "Uploads accepted by kind",
		},
		[]string{"kind"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galerie_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "galerie_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EventsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "galerie_events_dropped_total",
			Help: "Status events not delivered because a subscriber was full",
		},
	)
)
