package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/auditfeed-io/feedctl/internal/auth"
	"github.com/auditfeed-io/feedctl/internal/constants"
	"github.com/auditfeed-io/feedctl/internal/http"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// Client is the Management Activity API client for one tenant.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	tenantID     string
	logger       o365.Logger

	subscriptions *SubscriptionsClient
}

// parseProxyURL parses the configured proxy. Empty and the NONE sentinel
// mean a direct connection.
func parseProxyURL(config *o365.Config) (*url.URL, error) {
	if config.ProxyURL == "" || config.ProxyURL == o365.ProxyNone {
		return nil, nil
	}

	proxyURL, err := url.Parse(config.ProxyURL)
	if err != nil {
		return nil, &o365.ConfigError{Message: fmt.Sprintf("parsing proxy URL %q", config.ProxyURL), Err: constants.ErrInvalidProxyURL}
	}

	return proxyURL, nil
}

// createTokenManager builds the client-credentials token manager from
// config. The token grant goes through the same proxy as every API call.
func createTokenManager(config *o365.Config, proxyURL *url.URL) auth.TokenManager {
	loginEndpoint := config.LoginEndpoint
	if loginEndpoint == "" {
		loginEndpoint = o365.DefaultLoginEndpoint
	}

	resource := config.APIEndpoint
	if resource == "" {
		resource = o365.DefaultAPIEndpoint
	}

	return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     auth.TokenURL(loginEndpoint, config.TenantID),
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Resource:     resource,
		ProxyURL:     proxyURL,
	})
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *o365.Config, proxyURL *url.URL) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if proxyURL != nil {
		httpOpts = append(httpOpts, http.WithProxy(proxyURL))
	}

	return httpOpts
}

// New creates a Management Activity API client.
func New(config *o365.Config) (*Client, error) {
	if config.TenantID == "" {
		return nil, &o365.ConfigError{Message: "creating client", Err: o365.ErrTenantIDRequired}
	}

	proxyURL, err := parseProxyURL(config)
	if err != nil {
		return nil, err
	}

	tokenManager := createTokenManager(config, proxyURL)
	httpOpts := createHTTPClientOptions(config, proxyURL)

	apiEndpoint := config.APIEndpoint
	if apiEndpoint == "" {
		apiEndpoint = o365.DefaultAPIEndpoint
	}

	httpClient := http.NewClient(apiEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		tenantID:     config.TenantID,
		logger:       config.Logger,
	}
	client.subscriptions = NewSubscriptionsClient(httpClient, config.TenantID)

	return client, nil
}

// NewWithTokenManager creates a client with a custom token manager.
func NewWithTokenManager(config *o365.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.TenantID == "" {
		return nil, &o365.ConfigError{Message: "creating client", Err: o365.ErrTenantIDRequired}
	}

	proxyURL, err := parseProxyURL(config)
	if err != nil {
		return nil, err
	}

	httpOpts := createHTTPClientOptions(config, proxyURL)

	apiEndpoint := config.APIEndpoint
	if apiEndpoint == "" {
		apiEndpoint = o365.DefaultAPIEndpoint
	}

	httpClient := http.NewClient(apiEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		tenantID:     config.TenantID,
		logger:       config.Logger,
	}
	client.subscriptions = NewSubscriptionsClient(httpClient, config.TenantID)

	return client, nil
}

// Subscriptions returns the subscriptions client.
func (c *Client) Subscriptions() *SubscriptionsClient {
	return c.subscriptions
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", o365.ErrNoTokenManager
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// loggerAdapter adapts o365.Logger to http.Logger.
type loggerAdapter struct {
	logger o365.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
