package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameResolutionsTotal   = "arcade_resolutions_total"
	MetricNamePityForcedTotal    = "arcade_pity_forced_total"
	MetricNameCommitmentsTotal   = "arcade_commitments_total"
	MetricNameXPAwardedTotal     = "arcade_xp_awarded_total"
	MetricNamePrestigeTotal      = "arcade_prestige_resets_total"
	MetricNameJobLocksAcquired   = "job_locks_acquired_total"
	MetricNameJobLocksContended  = "job_locks_contended_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextResolutionsTotal  = "Total number of arcade resolutions by module and result"
	HelpTextPityForcedTotal   = "Total number of pity-forced above-floor draws"
	HelpTextCommitmentsTotal  = "Total number of server seed commitments published"
	HelpTextXPAwardedTotal    = "Total XP awarded across all resolutions"
	HelpTextPrestigeTotal     = "Total number of prestige resets"
	HelpTextJobLocksAcquired  = "Total number of background job locks acquired"
	HelpTextJobLocksContended = "Total number of background job lock attempts lost to another holder"
)

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelModule = "module"
	LabelResult = "result"
	LabelJob    = "job"
)

// Resolution result label values
const (
	ResultResolved = "resolved"
	ResultRejected = "rejected"
	ResultReplayed = "replayed"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, ranging from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
