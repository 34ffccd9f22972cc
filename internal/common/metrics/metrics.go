package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_submissions_total",
			Help: "Total number of loan application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loan_submission_duration_seconds",
			Help: "Duration of submission processing in seconds",
		},
		[]string{"outcome"},
	)

	FilesSavedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_files_saved_total",
			Help: "Total number of uploaded documents written to disk",
		},
	)

	FilesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_files_skipped_total",
			Help: "Total number of uploaded documents skipped",
		},
		[]string{"reason"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_notifications_total",
			Help: "Total number of notification attempts by status",
		},
		[]string{"status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loan_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "path"},
	)
)
