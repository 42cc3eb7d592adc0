package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/auditfeed-io/feedctl/internal/constants"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// TokenManager supplies bearer tokens for API requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(token string, expiresAt time.Time)
}

// OAuth2Config configures the client-credentials grant against Azure AD.
type OAuth2Config struct {
	// TokenURL is the tenant token endpoint, e.g.
	// https://login.microsoftonline.com/{tenant}/oauth2/token.
	TokenURL     string
	ClientID     string
	ClientSecret string

	// Resource is the AAD v1 target resource identifier the token is
	// scoped to, e.g. https://manage.office.com.
	Resource string

	// AccessToken seeds the store with an already-acquired token.
	AccessToken string

	// ProxyURL routes the token request through the same proxy the API
	// calls use. Ignored when HTTPClient is set.
	ProxyURL *url.URL

	// HTTPClient overrides the client used for the token request.
	HTTPClient *http.Client
}

// OAuth2TokenManager acquires and holds one token per run. There is no
// refresh strategy: an expired or missing token triggers a fresh grant.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      *TokenStore
	httpClient *http.Client
}

// NewOAuth2TokenManager creates a token manager for the given config.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.TokenHTTPTimeout}

		if config.ProxyURL != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = http.ProxyURL(config.ProxyURL)
			httpClient.Transport = transport
		}
	}

	manager := &OAuth2TokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{AccessToken: config.AccessToken, TokenType: "bearer"})
	}

	return manager
}

// TokenURL returns the Azure AD v1 token endpoint for a tenant.
func TokenURL(loginEndpoint, tenantID string) string {
	return strings.TrimSuffix(loginEndpoint, "/") + "/" + tenantID + "/oauth2/token"
}

// NewTenantTokenManager creates a manager for the given tenant using the
// Azure AD v1 token endpoint of loginEndpoint.
func NewTenantTokenManager(loginEndpoint, tenantID, clientID, clientSecret, resource string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     TokenURL(loginEndpoint, tenantID),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Resource:     resource,
	})
}

// GetToken returns the stored token when valid, otherwise performs the
// client-credentials grant.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// SetToken stores a token manually.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// requestToken performs one POST to the token endpoint. Failures are fatal
// auth errors; the grant is never retried.
func (m *OAuth2TokenManager) requestToken(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)

	if m.config.Resource != "" {
		form.Set("resource", m.config.Resource)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &o365.AuthError{Message: "building token request", Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &o365.AuthError{Message: "requesting token", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &o365.AuthError{Message: "reading token response", Err: err}
	}

	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		return nil, &o365.AuthError{Message: tokenErrorMessage(resp.StatusCode, body)}
	}

	return parseTokenResponse(body)
}

// parseTokenResponse decodes the grant response. The access_token field must
// be present, non-empty, and not the literal string "null".
func parseTokenResponse(body []byte) (*Token, error) {
	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &o365.AuthError{Message: "parsing token response", Err: err}
	}

	switch payload.AccessToken {
	case "":
		return nil, &o365.AuthError{Message: "token acquisition failed", Err: o365.ErrTokenMissing}
	case "null":
		return nil, &o365.AuthError{Message: "token acquisition failed", Err: o365.ErrTokenLiteralNull}
	}

	tokenType := payload.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}

	return &Token{AccessToken: payload.AccessToken, TokenType: tokenType}, nil
}

// tokenErrorMessage renders the AAD error body for a failed grant.
func tokenErrorMessage(statusCode int, body []byte) string {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Sprintf("token request failed (status %d): %s: %s", statusCode, payload.Error, payload.ErrorDescription)
	}

	return fmt.Sprintf("token request failed (status %d)", statusCode)
}
