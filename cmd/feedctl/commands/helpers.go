package commands

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/auditfeed-io/feedctl/internal/client"
	"github.com/auditfeed-io/feedctl/internal/logging"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"

	// None renders in place of an absent webhook.
	None = "None"

	// Masked replaces secret values in terminal output.
	Masked = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrSecretEmpty        = errors.New("client secret must not be empty")
	ErrNoConfigFileLoaded = errors.New("no configuration file loaded; pass --config or create one")
)

// sessionLog is the per-run log sink, set up by the root command when
// --log is given.
var sessionLog *logging.SessionLogger

// SetupSession opens the session log file when logging is enabled. It is
// called once by the root command before any subcommand runs.
func SetupSession(logEnabled bool, logFile string, debug bool) error {
	if !logEnabled {
		return nil
	}

	logger, err := logging.NewSession(logging.Options{Path: logFile, Debug: debug})
	if err != nil {
		return err
	}

	sessionLog = logger

	return nil
}

// CloseSession closes the session log file, if one was opened.
func CloseSession() {
	if sessionLog == nil {
		return
	}

	_ = sessionLog.Close()
	sessionLog = nil
}

// activeLogger returns the log sink for this run: the session file when
// --log was given, stderr when only --debug was given, nil otherwise.
func activeLogger() o365.Logger {
	if sessionLog != nil {
		return sessionLog
	}

	if viper.GetBool("debug") {
		return logging.NewTerminal(true)
	}

	return nil
}

// logError mirrors a fatal or per-call error into the session log.
func logError(msg string, err error) {
	if sessionLog == nil {
		return
	}

	sessionLog.Error(msg, map[string]interface{}{"error": err.Error()})
}

// loadClientConfig assembles the API client configuration from viper. All
// four credential keys come from the config file or FEEDCTL_* environment
// variables; a missing required key is a config error (exit 1) raised
// before any network call.
func loadClientConfig() (*o365.Config, error) {
	tenantID := viper.GetString("tenant_id")
	clientID := viper.GetString("client_id")
	clientSecret := viper.GetString("client_secret")

	switch {
	case tenantID == "":
		return nil, &o365.ConfigError{Message: "loading credentials", Err: o365.ErrTenantIDRequired}
	case clientID == "":
		return nil, &o365.ConfigError{Message: "loading credentials", Err: o365.ErrClientIDRequired}
	case clientSecret == "":
		return nil, &o365.ConfigError{Message: "loading credentials", Err: o365.ErrClientSecretRequired}
	}

	return &o365.Config{
		TenantID:      tenantID,
		ClientID:      clientID,
		ClientSecret:  clientSecret,
		ProxyURL:      viper.GetString("proxy_url"),
		LoginEndpoint: viper.GetString("login_endpoint"),
		APIEndpoint:   viper.GetString("api_endpoint"),
		Debug:         viper.GetBool("debug"),
		Logger:        activeLogger(),
	}, nil
}

// CreateClient builds the Management Activity API client from the loaded
// configuration.
func CreateClient() (*client.Client, error) {
	config, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	return client.New(config)
}

// contentType returns the configured audit stream, falling back to the
// documented default.
func contentType() string {
	value := strings.TrimSpace(viper.GetString("content_type"))
	if value == "" {
		return o365.DefaultContentType
	}

	return value
}
