package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for taskOperations.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

var (
	taskOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_task_operations_total",
			Help: "Number of task service operations by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	taskOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskboard_task_operation_duration_seconds",
			Help:    "Duration of task service operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	taskTitleLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskboard_task_title_length",
			Help:    "Length of saved task titles in characters",
			Buckets: prometheus.LinearBuckets(0, 16, 9),
		},
	)
)

// observeOperation records the duration and outcome of one service call.
// Not found, not owned and validation failures count as rejected.
func observeOperation(operation string, start time.Time, err error) {
	taskOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	status := outcomeSuccess
	switch {
	case err == nil:
	case isExpected(err):
		status = outcomeRejected
	default:
		status = outcomeError
	}
	taskOperations.WithLabelValues(operation, status).Inc()
}
