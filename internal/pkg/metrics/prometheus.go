package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LeaveRequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leave_request_transitions_total",
			Help: "Total number of leave request transitions by kind",
		},
		[]string{"transition"},
	)

	DocumentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leave_documents_generated_total",
			Help: "Total number of leave certificate generations by result",
		},
		[]string{"result"},
	)

	BatchRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leave_batch_runs_total",
			Help: "Total number of bulk document generation runs",
		},
	)

	CronJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leave_cron_job_duration_seconds",
			Help:    "Background job execution duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"job", "result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	DecisionEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leave_decision_emails_total",
			Help: "Total number of decision e-mails by result",
		},
		[]string{"result"},
	)

	SSESubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leave_sse_subscribers",
			Help: "Current number of open notification streams",
		},
	)

	SSEEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leave_sse_events_dropped_total",
			Help: "Notifications skipped because a stream buffer was full",
		},
	)
)

// Transition labels
const (
	TransitionSubmitted = "submitted"
	TransitionApproved  = "approved"
	TransitionRejected  = "rejected"
	TransitionDeleted   = "deleted"
)

// Result labels
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDropped = "dropped"
)
