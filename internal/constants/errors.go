package constants

import "errors"

// Static errors shared across packages.
var (
	// ErrInvalidProxyURL indicates the configured proxy could not be parsed.
	ErrInvalidProxyURL = errors.New("invalid proxy URL")

	// ErrPublisherNotConnected indicates publish was called before connect.
	ErrPublisherNotConnected = errors.New("publisher is not connected")
)
