// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_record_writes_total",
			Help: "Total number of record store writes",
		},
		[]string{"entity", "op"},
	)

	GradesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grades_skipped_total",
			Help: "Grades excluded from course averages because of malformed values",
		},
		[]string{"reason"},
	)

	GPAComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gpa_computations_total",
			Help: "Total number of overall GPA computations",
		},
	)

	CourseAverageHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "course_average_percent",
			Help:    "Distribution of reported course averages",
			Buckets: prometheus.LinearBuckets(50, 5, 11),
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
