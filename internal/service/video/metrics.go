package video

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workout",
			Subsystem: "video",
			Name:      "resolutions_total",
			Help:      "Video resolutions by the tier that produced the result.",
		},
		[]string{"source", "cached"},
	)

	tierFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workout",
			Subsystem: "video",
			Name:      "tier_failures_total",
			Help:      "Tier attempts that fell through to the next tier.",
		},
		[]string{"source"},
	)

	tierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "workout",
			Subsystem: "video",
			Name:      "tier_duration_seconds",
			Help:      "Latency of a single tier attempt.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)
