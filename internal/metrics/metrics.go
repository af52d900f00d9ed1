package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TasksCompleted counts successful task completions.
	TasksCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_tasks_completed_total",
			Help: "Total number of tasks completed by users",
		},
	)

	// PointsAwarded sums points awarded through task completions.
	PointsAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_points_awarded_total",
			Help: "Total points awarded through task completions",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, TasksCompleted, PointsAwarded)
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTaskCompleted records a successful completion worth the given points.
func RecordTaskCompleted(points int) {
	TasksCompleted.Inc()
	PointsAwarded.Add(float64(points))
}
