package sentiment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_refresh_cycles_total",
		Help: "Completed sentiment refresh cycles by task and status.",
	}, []string{"task", "status"})

	cycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentiment_refresh_duration_seconds",
		Help:    "Duration of sentiment refresh cycles.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})
)
