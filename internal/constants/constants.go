package constants

import "time"

// File permissions.
const (
	// ConfigFilePerm restricts credential files to the owner.
	ConfigFilePerm = 0600

	// LogFilePerm is the permission for session log files.
	LogFilePerm = 0640
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// TokenHTTPTimeout is the timeout for the token endpoint.
	TokenHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are disabled by default: every subscription
// operation issues exactly one HTTP call unless the caller opts in.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// HTTP status code boundaries.
const (
	// HTTPStatusBadRequest is the lower bound of error responses.
	HTTPStatusBadRequest = 400
)

// Display formatting.
const (
	// TimestampFormat is how timestamps render in tables and logs.
	TimestampFormat = "2006-01-02 15:04:05"

	// LogFileTimestampFormat names per-run session log files.
	LogFileTimestampFormat = "20060102-150405"
)
