package o365

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Process exit statuses. Success and explicit menu exit are 0.
const (
	ExitOK     = 0
	ExitConfig = 1
	ExitAuth   = 2
	ExitAPI    = 3
)

// ConfigError indicates the credential configuration is missing or unusable.
type ConfigError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Message, e.Err)
	}

	return "config: " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError indicates token acquisition failed. It is always fatal; the
// grant is never retried.
type AuthError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Message, e.Err)
	}

	return "auth: " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError represents the error object the Management Activity API returns
// inside a non-2xx response body.
type APIError struct {
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError wraps a non-2xx API response: the HTTP status plus the
// decoded error body when one was present.
type ResponseError struct {
	StatusCode int       `json:"status_code"     yaml:"status_code"`
	APIError   *APIError `json:"error,omitempty" yaml:"error,omitempty"`
	Raw        string    `json:"raw,omitempty"   yaml:"raw,omitempty"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if e.APIError != nil {
		return fmt.Sprintf("API request failed (status %d): %s", e.StatusCode, e.APIError.Error())
	}

	if e.Raw != "" {
		return fmt.Sprintf("API request failed (status %d): %s", e.StatusCode, e.Raw)
	}

	return fmt.Sprintf("API request failed (status %d)", e.StatusCode)
}

// ParseResponseError decodes the {"error":{"code","message"}} body of a
// failed API call. A body that is not in that shape is kept verbatim.
func ParseResponseError(statusCode int, body []byte) *ResponseError {
	respErr := &ResponseError{StatusCode: statusCode}

	var envelope struct {
		Error *APIError `json:"error"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		respErr.APIError = envelope.Error

		return respErr
	}

	respErr.Raw = string(body)

	return respErr
}

// Common static errors that can be wrapped with context.
var (
	ErrTenantIDRequired     = errors.New("tenant ID is required")
	ErrClientIDRequired     = errors.New("client ID is required")
	ErrClientSecretRequired = errors.New("client secret is required")
	ErrTokenMissing         = errors.New("token response contained no access_token")
	ErrTokenLiteralNull     = errors.New(`token response contained the literal string "null"`)
	ErrNoTokenManager       = errors.New("no token manager configured")
	ErrContentTypeRequired  = errors.New("content type is required")
)

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	target := &ConfigError{}

	return errors.As(err, &target)
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	target := &AuthError{}

	return errors.As(err, &target)
}

// IsAPIError reports whether err is (or wraps) an API response error.
func IsAPIError(err error) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return true
	}

	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// ExitCode maps an error to the process exit status: 1 for configuration
// problems, 2 for authentication failures, 3 for API request failures, and
// 1 for anything else. A nil error maps to 0.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsAuthError(err):
		return ExitAuth
	case IsAPIError(err):
		return ExitAPI
	case IsConfigError(err):
		return ExitConfig
	default:
		return ExitConfig
	}
}
