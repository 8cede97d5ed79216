package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameCartOperations       = "cart_operations_total"
	MetricNameAuthAttempts         = "auth_attempts_total"
)

// Help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextCartOperations       = "Total number of cart operations by outcome"
	HelpTextAuthAttempts         = "Total number of register, login and SSO attempts by outcome"
)

// Label names
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
)

// Cart operations
const (
	OpCartAdd    = "add"
	OpCartUpdate = "update"
	OpCartRemove = "remove"
	OpCartClear  = "clear"
)

// Auth operations
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpSSO      = "sso"
	OpLogout   = "logout"
)

// Outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// HTTPLatencyBuckets ranges from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// unmatchedPath labels requests that no route matched so that unknown URLs
// cannot blow up label cardinality.
const unmatchedPath = "unmatched"
