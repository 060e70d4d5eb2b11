package analytics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	histogramComputeTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "earnings_tracker",
			Subsystem: "analytics",
			Name:      "compute_seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation", "error"},
	)

	counterCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "earnings_tracker",
			Subsystem: "analytics",
			Name:      "cache_requests_total",
		},
		[]string{"operation", "hit"},
	)
)

func observeCompute(op string, elapsed time.Duration, err bool) {
	histogramComputeTime.
		WithLabelValues(op, strconv.FormatBool(err)).
		Observe(elapsed.Seconds())
}

func observeCache(op string, hit bool) {
	counterCache.WithLabelValues(op, strconv.FormatBool(hit)).Inc()
}
