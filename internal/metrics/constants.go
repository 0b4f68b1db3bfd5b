package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Domain metric names
const (
	MetricNameResolutionsTotal    = "cost_resolutions_total"
	MetricNameResolutionDuration  = "cost_resolution_duration_seconds"
	MetricNameSnapshotsRecorded   = "price_snapshots_recorded_total"
	MetricNameSnapshotsSkipped    = "price_snapshots_skipped_total"
	MetricNameRecipesIngested     = "recipes_ingested_total"
	MetricNameRecipesRejected     = "recipes_rejected_total"
	MetricNameMarketRequestsTotal = "market_api_requests_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Domain metric help text
const (
	HelpTextResolutionsTotal    = "Total number of cost resolutions performed"
	HelpTextResolutionDuration  = "Cost resolution latency in seconds"
	HelpTextSnapshotsRecorded   = "Total number of price snapshots recorded"
	HelpTextSnapshotsSkipped    = "Total number of price syncs skipped as fresh"
	HelpTextRecipesIngested     = "Total number of recipes ingested"
	HelpTextRecipesRejected     = "Total number of malformed recipes rejected"
	HelpTextMarketRequestsTotal = "Total number of upstream market API requests"
)

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelDecision = "decision"
	LabelReason   = "reason"
	LabelEndpoint = "endpoint"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ResolutionLatencyBuckets covers in-memory graph walks, which finish far
// faster than HTTP round trips
var ResolutionLatencyBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
