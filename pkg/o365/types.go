package o365

import "time"

// Subscription represents one content-type subscription as returned by the
// /subscriptions/list and /subscriptions/start endpoints.
type Subscription struct {
	ContentType string   `json:"contentType"       yaml:"contentType"`
	Status      string   `json:"status"            yaml:"status"`
	Webhook     *Webhook `json:"webhook,omitempty" yaml:"webhook,omitempty"`
}

// Webhook describes the notification endpoint registered for a subscription.
type Webhook struct {
	Status     string `json:"status,omitempty"     yaml:"status,omitempty"`
	Address    string `json:"address,omitempty"    yaml:"address,omitempty"`
	AuthID     string `json:"authId,omitempty"     yaml:"authId,omitempty"`
	Expiration string `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

// ContentBlob represents one available content listing entry from the
// /subscriptions/content endpoint. Timestamps stay strings on purpose: the
// API emits them without a zone designator and they are display-only here.
type ContentBlob struct {
	ContentURI        string `json:"contentUri"        yaml:"contentUri"`
	ContentID         string `json:"contentId"         yaml:"contentId"`
	ContentType       string `json:"contentType"       yaml:"contentType"`
	ContentCreated    string `json:"contentCreated"    yaml:"contentCreated"`
	ContentExpiration string `json:"contentExpiration" yaml:"contentExpiration"`
}

// Config holds everything needed to construct an API client. Credentials are
// loaded once at startup and the struct is not mutated afterwards.
type Config struct {
	// TenantID is the Azure AD directory (tenant) identifier.
	TenantID string

	// ClientID and ClientSecret are the app registration credentials used
	// for the client-credentials grant.
	ClientID     string
	ClientSecret string

	// ProxyURL routes all HTTP traffic through the given proxy when set.
	// The sentinel value "NONE" (or empty) means direct connections.
	ProxyURL string

	// LoginEndpoint overrides the Azure AD login base URL. Defaults to
	// https://login.microsoftonline.com.
	LoginEndpoint string

	// APIEndpoint overrides the Management Activity API base URL. Defaults
	// to https://manage.office.com.
	APIEndpoint string

	// Debug enables raw request/response logging.
	Debug bool

	// Logger receives debug and error output when set.
	Logger Logger

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// RetryMax enables retries on transient failures when > 0. The default
	// is 0: every operation issues exactly one HTTP call.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Logger is the logging interface accepted throughout the module.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ProxyNone is the configuration sentinel that disables proxying.
const ProxyNone = "NONE"

// DefaultContentType is the audit stream operated on when no content type
// is configured.
const DefaultContentType = "Audit.AzureActiveDirectory"

// Default service endpoints.
const (
	DefaultLoginEndpoint = "https://login.microsoftonline.com"
	DefaultAPIEndpoint   = "https://manage.office.com"
)
