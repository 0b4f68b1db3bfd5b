package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Resolution Metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResolutionsTotal,
			Help: HelpTextResolutionsTotal,
		},
		[]string{LabelDecision},
	)

	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameResolutionDuration,
			Help:    HelpTextResolutionDuration,
			Buckets: ResolutionLatencyBuckets,
		},
	)
)

// Sync Metrics
var (
	SnapshotsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotsRecorded,
			Help: HelpTextSnapshotsRecorded,
		},
	)

	SnapshotsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSnapshotsSkipped,
			Help: HelpTextSnapshotsSkipped,
		},
	)

	RecipesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRecipesIngested,
			Help: HelpTextRecipesIngested,
		},
	)

	RecipesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRecipesRejected,
			Help: HelpTextRecipesRejected,
		},
		[]string{LabelReason},
	)

	MarketRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMarketRequestsTotal,
			Help: HelpTextMarketRequestsTotal,
		},
		[]string{LabelEndpoint, LabelStatus},
	)
)
