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

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Settlement Metrics
var (
	RedemptionsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRedemptionsSettled,
			Help: HelpTextRedemptionsSettled,
		},
		[]string{LabelPayout, LabelStatus, LabelFailureKind},
	)

	RedemptionAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRedemptionAmount,
			Help: HelpTextRedemptionAmount,
		},
		[]string{LabelPayout},
	)

	SettlementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSettlementDuration,
			Help:    HelpTextSettlementDuration,
			Buckets: SettlementLatencyBuckets,
		},
		[]string{LabelPayout},
	)

	SecurityCheckFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSecurityCheckFailures,
			Help: HelpTextSecurityCheckFailures,
		},
		[]string{LabelCheck, LabelKind},
	)

	InventoryClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInventoryClaims,
			Help: HelpTextInventoryClaims,
		},
		[]string{LabelPayout, LabelResult},
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGatewayRequests,
			Help: HelpTextGatewayRequests,
		},
		[]string{LabelResult},
	)

	StaleProcessing = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStaleProcessing,
			Help: HelpTextStaleProcessing,
		},
	)

	SettlementQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSettlementQueueDepth,
			Help: HelpTextSettlementQueueDepth,
		},
	)

	SettlementQueueDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSettlementQueueDropped,
			Help: HelpTextSettlementQueueDropped,
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNotifications,
			Help: HelpTextNotifications,
		},
		[]string{LabelPayout, LabelResult},
	)
)
