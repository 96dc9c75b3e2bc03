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

// Business Metrics
var (
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameResolutionsTotal,
			Help: HelpTextResolutionsTotal,
		},
		[]string{LabelModule, LabelResult},
	)

	PityForcedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePityForcedTotal,
			Help: HelpTextPityForcedTotal,
		},
		[]string{LabelModule},
	)

	CommitmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommitmentsTotal,
			Help: HelpTextCommitmentsTotal,
		},
		[]string{LabelModule},
	)

	XPAwardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPAwardedTotal,
			Help: HelpTextXPAwardedTotal,
		},
	)

	PrestigeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrestigeTotal,
			Help: HelpTextPrestigeTotal,
		},
	)
)

// Job Lock Metrics
var (
	JobLocksAcquired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobLocksAcquired,
			Help: HelpTextJobLocksAcquired,
		},
		[]string{LabelJob},
	)

	JobLocksContended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobLocksContended,
			Help: HelpTextJobLocksContended,
		},
		[]string{LabelJob},
	)
)
