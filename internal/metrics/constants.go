package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Settlement metric names
const (
	MetricNameRedemptionsSettled     = "redemptions_settled_total"
	MetricNameRedemptionAmount       = "redemption_amount_settled_total"
	MetricNameSettlementDuration     = "redemption_settlement_duration_seconds"
	MetricNameSecurityCheckFailures  = "redemption_security_check_failures_total"
	MetricNameInventoryClaims        = "redemption_inventory_claims_total"
	MetricNameGatewayRequests        = "redemption_gateway_requests_total"
	MetricNameStaleProcessing        = "redemptions_stale_processing"
	MetricNameSettlementQueueDepth   = "redemption_settlement_queue_depth"
	MetricNameSettlementQueueDropped = "redemption_settlement_queue_dropped_total"
	MetricNameNotifications          = "redemption_notifications_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Settlement metric help text
const (
	HelpTextRedemptionsSettled     = "Redemption requests committed to a terminal status"
	HelpTextRedemptionAmount       = "Sum of completed redemption amounts in account currency"
	HelpTextSettlementDuration     = "Time from claim to terminal commit in seconds"
	HelpTextSecurityCheckFailures  = "Security gate checks that did not pass"
	HelpTextInventoryClaims        = "Inventory claim attempts by outcome"
	HelpTextGatewayRequests        = "Cash rail gateway calls by outcome"
	HelpTextStaleProcessing        = "Requests stuck in processing past the stale threshold"
	HelpTextSettlementQueueDepth   = "Settlement jobs waiting for a worker"
	HelpTextSettlementQueueDropped = "Settlement attempts skipped because the queue was full"
	HelpTextNotifications          = "Completion notifications by outcome"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelType        = "type"
	LabelPayout      = "payout_method"
	LabelFailureKind = "failure_kind"
	LabelCheck       = "check"
	LabelKind        = "kind"
	LabelResult      = "result"
)

// Label values
const (
	KindRejected = "rejected"
	KindInfra    = "infra"

	ResultClaimed     = "claimed"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
	ResultSuccess     = "success"
	ResultDeclined    = "declined"
	ResultTimeout     = "timeout"
	ResultSent        = "sent"
	ResultFailed      = "failed"
	ResultSkipped     = "skipped"

	// UnmatchedRoute labels requests that did not match a route
	UnmatchedRoute = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SettlementLatencyBuckets covers inventory claims (ms) up to slow gateway calls (tens of seconds)
var SettlementLatencyBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload is not a redemption payload"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
